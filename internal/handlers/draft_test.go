package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"attesta/internal/models"
	"attesta/internal/services"
)

func TestIssueTokenCreatesDraft(t *testing.T) {
	e := setupTest(t)
	client := e.createClient(t, "Alice")
	token := e.issueToken(t, client.ID)

	var drafts []models.Attestation
	e.db.Where("token_id = ?", token.ID).Find(&drafts)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 pre-created draft, got %d", len(drafts))
	}
	d := drafts[0]
	if d.Status != models.AttestationStatusDraft {
		t.Fatalf("status %s", d.Status)
	}
	if d.ClientNom != services.DefaultClientNom || d.ClientAdresse != services.DefaultClientAdresse {
		t.Fatalf("buyer defaults missing: %q %q", d.ClientNom, d.ClientAdresse)
	}
	if d.PrestationDescription != "À compléter par le client" {
		t.Fatalf("placeholder description: %q", d.PrestationDescription)
	}
}

func TestSaveDraftUpsertsSingleRow(t *testing.T) {
	e := setupTest(t)
	client := e.createClient(t, "Alice")
	token := e.issueToken(t, client.ID)

	// Auto-save fires repeatedly; every save lands on the same row.
	for i := 0; i < 5; i++ {
		body := fmt.Sprintf(`{"tokenId":"%s","attestationData":{"nom":"Dupont","prenom":"Jean","prix":"%d0.00","type_prestation":"autre","autres_precisions":"conciergerie"}}`,
			token.ID, i+10)
		w := e.do("PUT", "/attestations/draft", body, "")
		if w.Code != http.StatusOK {
			t.Fatalf("save %d status %d: %s", i, w.Code, w.Body.String())
		}
	}

	var count int64
	e.db.Model(&models.Attestation{}).Where("token_id = ?", token.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 draft row, got %d", count)
	}

	var d models.Attestation
	e.db.Where("token_id = ?", token.ID).First(&d)
	if d.PrestataireNom != "Dupont" {
		t.Fatalf("nom %q", d.PrestataireNom)
	}
	// Last write wins.
	if d.PrestationMontant.String() != "140" {
		t.Fatalf("montant %s", d.PrestationMontant.String())
	}
}

func TestSaveDraftRejectsUsedToken(t *testing.T) {
	e := setupTest(t)
	client := e.createClient(t, "Alice")
	token := e.issueToken(t, client.ID)
	e.db.Model(&models.Token{}).Where("id = ?", token.ID).Update("used", true)

	body := fmt.Sprintf(`{"tokenId":"%s","attestationData":{"nom":"Dupont"}}`, token.ID)
	w := e.do("PUT", "/attestations/draft", body, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
}

func TestGetDraftRoundTrip(t *testing.T) {
	e := setupTest(t)
	client := e.createClient(t, "Alice")
	token := e.issueToken(t, client.ID)

	body := fmt.Sprintf(`{"tokenId":"%s","attestationData":{
		"nom":"Dupont","prenom":"Jean","adresse":"1 rue de la Paix","email":"jean@example.com",
		"telephone":"0612345678","siret":"12345678901234",
		"type_prestation":"evenement_sportif","evenement":"Roland-Garros 2025",
		"lots":[{"eventDate":"2025-06-01","court":"Philippe-Chatrier","categorie":"Or","tickets":"2"}],
		"autres_precisions":"remise en main propre","prix":"150.50","ville":"Paris","date":"2025-05-20"}}`, token.ID)
	if w := e.do("PUT", "/attestations/draft", body, ""); w.Code != http.StatusOK {
		t.Fatalf("save status %d: %s", w.Code, w.Body.String())
	}

	w := e.do("GET", "/attestations/draft/"+token.ID, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("load status %d: %s", w.Code, w.Body.String())
	}
	var resp DraftResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	d := resp.Data
	if d.TypePrestation != "evenement_sportif" || d.Evenement != "Roland-Garros 2025" {
		t.Fatalf("prestation type lost: %+v", d)
	}
	if len(d.Lots) != 1 || d.Lots[0].Court != "Philippe-Chatrier" || d.Lots[0].Tickets != "2" {
		t.Fatalf("lots lost: %+v", d.Lots)
	}
	if d.AutresPrecisions != "remise en main propre" {
		t.Fatalf("precisions lost: %q", d.AutresPrecisions)
	}
	if d.Prix != "150.5" || d.Date != "2025-05-20" || d.Ville != "Paris" {
		t.Fatalf("scalar fields lost: %+v", d)
	}
}

func TestGetDraftUnknownToken(t *testing.T) {
	e := setupTest(t)
	w := e.do("GET", "/attestations/draft/does-not-exist", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
}
