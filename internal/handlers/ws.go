package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"attesta/internal/notifications"
	"attesta/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// AdminWS godoc
// @Summary Admin live feed
// @Description Upgrades to a websocket that pushes attestation_completed events. The session cookie is checked here because websocket requests bypass the redirect middleware.
// @Tags admin
// @Success 101
// @Failure 401 {object} ErrorResponse
// @Router /ws/admin/notifications [get]
func AdminWS(sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || !sessions.Valid(c.Request.Context(), token) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		notifications.AddAdmin(conn)
		defer func() {
			notifications.RemoveAdmin(conn)
			conn.Close()
		}()
		// Read loop only detects disconnects; the dashboard never sends.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
