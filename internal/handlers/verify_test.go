package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"attesta/internal/models"
)

func TestVerifyCodeValid(t *testing.T) {
	e := setupTest(t)
	client := e.createClient(t, "Alice Martin")
	token := e.issueToken(t, client.ID)

	w := e.do("POST", "/verify-code", `{"code":"`+token.Token+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp VerifyCodeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Valid {
		t.Fatalf("expected valid response")
	}
	if resp.TokenData == nil || resp.TokenData.ID != token.ID {
		t.Fatalf("token data missing or wrong")
	}
	if resp.TokenData.Client.Name != "Alice Martin" {
		t.Fatalf("client not preloaded: %+v", resp.TokenData.Client)
	}

	// Redeeming does not consume the code.
	var reloaded models.Token
	e.db.First(&reloaded, "id = ?", token.ID)
	if reloaded.Used {
		t.Fatalf("token must stay unused after verification")
	}
}

func TestVerifyCodeUnknown(t *testing.T) {
	e := setupTest(t)

	w := e.do("POST", "/verify-code", `{"code":"NOPE1234"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
	var resp VerifyCodeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Valid || resp.Error != "Code d'accès invalide ou déjà utilisé" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestVerifyCodeUsed(t *testing.T) {
	e := setupTest(t)
	client := e.createClient(t, "Bob")
	token := e.issueToken(t, client.ID)
	e.db.Model(&models.Token{}).Where("id = ?", token.ID).Update("used", true)

	w := e.do("POST", "/verify-code", `{"code":"`+token.Token+`"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
}

func TestVerifyCodeExpired(t *testing.T) {
	e := setupTest(t)
	client := e.createClient(t, "Carol")
	token := e.issueToken(t, client.ID)
	e.db.Model(&models.Token{}).Where("id = ?", token.ID).
		Update("expires_at", time.Now().Add(-time.Hour))

	w := e.do("POST", "/verify-code", `{"code":"`+token.Token+`"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
	var resp VerifyCodeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "Code d'accès expiré" {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
}

func TestVerifyCodeEmptyBody(t *testing.T) {
	e := setupTest(t)
	w := e.do("POST", "/verify-code", `{}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
}
