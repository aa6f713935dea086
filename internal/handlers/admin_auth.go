package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"attesta/config"
	"attesta/internal/services"
)

const sessionCookie = "admin_session"

type AdminLoginRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

// AdminLogin godoc
// @Summary Admin login
// @Description Checks the shared admin password (and TOTP code when configured) and sets the session cookie.
// @Tags admin
// @Accept json
// @Produce json
// @Param input body AdminLoginRequest true "credentials"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} SuccessResponse
// @Router /admin/login [post]
func AdminLogin(cfg *config.Config, sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r AdminLoginRequest
		if err := c.BindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
			return
		}
		if !passwordMatches(cfg, r.Password) {
			c.JSON(http.StatusUnauthorized, SuccessResponse{Success: false})
			return
		}
		if cfg.AdminTOTPSecret != "" && !totp.Validate(r.Code, cfg.AdminTOTPSecret) {
			c.JSON(http.StatusUnauthorized, SuccessResponse{Success: false})
			return
		}
		token, err := sessions.Create(c.Request.Context(), cfg.SessionTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "session error"})
			return
		}
		// Not HttpOnly: the dashboard reads the cookie to know it is logged in.
		c.SetCookie(sessionCookie, token, int(cfg.SessionTTL.Seconds()), "/", "", false, false)
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

func passwordMatches(cfg *config.Config, password string) bool {
	if cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(cfg.AdminPassword), []byte(password)) == 1
}

// AdminLogout godoc
// @Summary Admin logout
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /admin/logout [post]
func AdminLogout(sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(sessionCookie); err == nil {
			_ = sessions.Delete(c.Request.Context(), token)
		}
		c.SetCookie(sessionCookie, "", -1, "/", "", false, false)
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

// AdminMiddleware guards the admin routes: requests without a valid
// session cookie are redirected to the login page. This is the entire
// authorization model.
func AdminMiddleware(sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || !sessions.Valid(c.Request.Context(), token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
