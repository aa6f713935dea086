package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"attesta/internal/models"
)

func TestIssueTokenSingleActive(t *testing.T) {
	e := setupTest(t)
	session := e.adminCookie(t)
	client := e.createClient(t, "Alice")

	w := e.do("POST", "/admin/clients/"+client.ID+"/tokens", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp IssueTokenResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Code) != 8 {
		t.Fatalf("code %q", resp.Code)
	}
	for _, r := range resp.Code {
		if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r) {
			t.Fatalf("code alphabet: %q", resp.Code)
		}
	}

	// A second issue while the first code is live conflicts.
	w = e.do("POST", "/admin/clients/"+client.ID+"/tokens", "", session)
	if w.Code != http.StatusConflict {
		t.Fatalf("status %d", w.Code)
	}

	// Once the code is consumed a new one can be issued.
	e.db.Model(&models.Token{}).Where("client_id = ?", client.ID).Update("used", true)
	w = e.do("POST", "/admin/clients/"+client.ID+"/tokens", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestIssueTokenUnknownClient(t *testing.T) {
	e := setupTest(t)
	w := e.do("POST", "/admin/clients/nope/tokens", "", e.adminCookie(t))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
}

func TestTokenHistory(t *testing.T) {
	e := setupTest(t)
	session := e.adminCookie(t)
	client := e.createClient(t, "Alice")

	first := e.issueToken(t, client.ID)
	e.db.Model(&models.Token{}).Where("id = ?", first.ID).Update("used", true)
	e.issueToken(t, client.ID)

	w := e.do("GET", "/admin/clients/"+client.ID+"/tokens", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var tokens []models.Token
	json.Unmarshal(w.Body.Bytes(), &tokens)
	if len(tokens) != 2 {
		t.Fatalf("history length %d", len(tokens))
	}
}

func TestWhatsAppLink(t *testing.T) {
	e := setupTest(t)
	session := e.adminCookie(t)
	client := e.createClient(t, "Alice")
	token := e.issueToken(t, client.ID)

	w := e.do("GET", "/admin/clients/"+client.ID+"/whatsapp-link", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp WhatsAppLinkResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != token.Token {
		t.Fatalf("code %q", resp.Code)
	}
	if !strings.HasPrefix(resp.URL, "https://wa.me/33612345678?text=") {
		t.Fatalf("url %q", resp.URL)
	}
	u, err := url.Parse(resp.URL)
	if err != nil {
		t.Fatal(err)
	}
	msg := u.Query().Get("text")
	if !strings.Contains(msg, token.Token) || !strings.Contains(msg, "Alice") {
		t.Fatalf("message %q", msg)
	}
	if !strings.Contains(msg, e.cfg.BaseURL+"/?code="+token.Token) {
		t.Fatalf("direct link missing: %q", msg)
	}

	// Handoff is logged.
	var logs []models.MessageLog
	e.db.Where("client_id = ?", client.ID).Find(&logs)
	if len(logs) != 1 || logs[0].Channel != models.MessageChannelWhatsApp || !logs[0].Success {
		t.Fatalf("message log: %+v", logs)
	}
}

func TestWhatsAppLinkNoActiveToken(t *testing.T) {
	e := setupTest(t)
	client := e.createClient(t, "Alice")
	w := e.do("GET", "/admin/clients/"+client.ID+"/whatsapp-link", "", e.adminCookie(t))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
}

func TestWhatsAppLinkNoPhone(t *testing.T) {
	e := setupTest(t)
	session := e.adminCookie(t)
	client := e.createClient(t, "Alice")
	e.issueToken(t, client.ID)
	e.db.Model(&models.Client{}).Where("id = ?", client.ID).Update("phone", nil)

	w := e.do("GET", "/admin/clients/"+client.ID+"/whatsapp-link", "", session)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
}

func TestSendCodeEmail(t *testing.T) {
	e := setupTest(t)
	session := e.adminCookie(t)
	client := e.createClient(t, "Alice")
	token := e.issueToken(t, client.ID)

	w := e.do("POST", "/admin/clients/"+client.ID+"/send-code", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if len(e.mailer.accessCodes) != 1 || !strings.HasSuffix(e.mailer.accessCodes[0], ":"+token.Token) {
		t.Fatalf("mailer calls: %v", e.mailer.accessCodes)
	}

	var logs []models.MessageLog
	e.db.Where("client_id = ? AND channel = ?", client.ID, models.MessageChannelEmail).Find(&logs)
	if len(logs) != 1 || !logs[0].Success {
		t.Fatalf("message log: %+v", logs)
	}
}

func TestSendCodeEmailFailureLogged(t *testing.T) {
	e := setupTest(t)
	session := e.adminCookie(t)
	client := e.createClient(t, "Alice")
	e.issueToken(t, client.ID)
	e.mailer.fail = true

	w := e.do("POST", "/admin/clients/"+client.ID+"/send-code", "", session)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status %d", w.Code)
	}
	var logs []models.MessageLog
	e.db.Where("client_id = ?", client.ID).Find(&logs)
	if len(logs) != 1 || logs[0].Success || logs[0].Error == nil {
		t.Fatalf("failure not logged: %+v", logs)
	}
}
