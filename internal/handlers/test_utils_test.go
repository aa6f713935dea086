package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"attesta/config"
	"attesta/internal/db"
	"attesta/internal/models"
	"attesta/internal/services"
	"attesta/internal/services/storage"
)

// fakeMailer records sends so tests can assert on delivery attempts.
type fakeMailer struct {
	accessCodes  []string
	attestations []string
	fail         bool
}

func (f *fakeMailer) SendAccessCode(to, clientName, code, baseURL string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.accessCodes = append(f.accessCodes, to+":"+code)
	return nil
}

func (f *fakeMailer) SendAttestation(to, prestataireName, pdfURL string, pdf []byte) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.attestations = append(f.attestations, to+":"+pdfURL)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	storage  *storage.Memory
	sessions *services.MemorySessions
	mailer   *fakeMailer
	cfg      *config.Config
}

// setupTest opens an in-memory database and wires the full route table the
// way cmd/api does.
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		BaseURL:       "https://attestation.example.com",
		AdminPassword: "test-admin-password",
		SessionTTL:    time.Hour,
		TokenTTLDays:  7,
		AdminEmail:    "admin@tgzconciergerie.com",
	}

	st := storage.NewMemory()
	sessions := services.NewMemorySessions()
	mail := &fakeMailer{}

	r := gin.Default()
	r.GET("/health", Health(gdb))
	r.POST("/verify-code", VerifyCode(gdb))
	r.GET("/events", ListEvents(gdb))
	r.GET("/attestations/draft/:tokenID", GetDraft(gdb))
	r.PUT("/attestations/draft", SaveDraft(gdb))
	r.POST("/finalize-attestation", FinalizeAttestation(gdb, st, mail, cfg.AdminEmail))

	r.POST("/admin/login", AdminLogin(cfg, sessions))
	r.POST("/admin/logout", AdminLogout(sessions))
	r.GET("/ws/admin/notifications", AdminWS(sessions))

	admin := r.Group("/admin")
	admin.Use(AdminMiddleware(sessions))
	admin.GET("/clients", ListClients(gdb))
	admin.POST("/clients", CreateClient(gdb))
	admin.PUT("/clients/:id", UpdateClient(gdb))
	admin.DELETE("/clients/:id", DeleteClient(gdb))
	admin.POST("/clients/:id/tokens", IssueToken(gdb, cfg.TokenTTLDays))
	admin.GET("/clients/:id/tokens", TokenHistory(gdb))
	admin.GET("/clients/:id/whatsapp-link", WhatsAppLink(gdb, cfg.BaseURL))
	admin.POST("/clients/:id/send-code", SendCodeEmail(gdb, mail, cfg.BaseURL))
	admin.GET("/clients/:id/messages", MessageHistory(gdb))
	admin.GET("/events", ListAllEvents(gdb))
	admin.POST("/events", CreateEvent(gdb))
	admin.PUT("/events/:id", UpdateEvent(gdb))
	admin.DELETE("/events/:id", DeleteEvent(gdb))
	admin.GET("/attestations", ListAttestations(gdb))
	admin.GET("/stats", GetStats(gdb))
	admin.POST("/attestations/:id/invoice-toggle", ToggleInvoice(gdb))
	admin.DELETE("/attestations/:id", DeleteAttestation(gdb))

	return &testEnv{db: gdb, router: r, storage: st, sessions: sessions, mailer: mail, cfg: cfg}
}

// do runs a request against the router. A non-empty session adds the admin
// cookie.
func (e *testEnv) do(method, path, body, session string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "admin_session", Value: session})
	}
	e.router.ServeHTTP(w, req)
	return w
}

// adminCookie logs a session in directly and returns the cookie value.
func (e *testEnv) adminCookie(t *testing.T) string {
	t.Helper()
	token, err := e.sessions.Create(context.Background(), e.cfg.SessionTTL)
	if err != nil {
		t.Fatalf("session create: %v", err)
	}
	return token
}

// createClient inserts a client with contact details for token tests.
func (e *testEnv) createClient(t *testing.T, name string) *models.Client {
	t.Helper()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	phone := "+33 6 12 34 56 78"
	c := models.Client{Name: name, Email: &email, Phone: &phone}
	if err := e.db.Create(&c).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	return &c
}

// issueToken issues an access code for a client through the service layer.
func (e *testEnv) issueToken(t *testing.T, clientID string) *models.Token {
	t.Helper()
	token, err := services.IssueToken(e.db, clientID, e.cfg.TokenTTLDays)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}
