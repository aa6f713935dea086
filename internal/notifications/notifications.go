// Package notifications pushes live events to connected admin dashboards.
package notifications

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"attesta/internal/models"
)

// Event is what an admin dashboard receives over the websocket.
type Event struct {
	Type        string              `json:"type"`
	Attestation *models.Attestation `json:"attestation,omitempty"`
	At          time.Time           `json:"at"`
}

const EventAttestationCompleted = "attestation_completed"

var admins = struct {
	sync.Mutex
	m map[*websocket.Conn]bool
}{m: make(map[*websocket.Conn]bool)}

// AddAdmin registers an admin dashboard connection.
func AddAdmin(conn *websocket.Conn) {
	admins.Lock()
	admins.m[conn] = true
	admins.Unlock()
}

// RemoveAdmin drops a connection.
func RemoveAdmin(conn *websocket.Conn) {
	admins.Lock()
	delete(admins.m, conn)
	admins.Unlock()
}

// BroadcastFinalized tells every connected dashboard that an attestation
// was just completed. Dead connections are closed and dropped.
func BroadcastFinalized(att *models.Attestation) {
	e := Event{Type: EventAttestationCompleted, Attestation: att, At: time.Now()}
	admins.Lock()
	defer admins.Unlock()
	for conn := range admins.m {
		if err := conn.WriteJSON(e); err != nil {
			conn.Close()
			delete(admins.m, conn)
		}
	}
}
