package cvs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cvision-backend/internal/bootstrap"
	"cvision-backend/internal/shared/config"
)

func buildApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func cvPayload(title string, isPrimary bool) map[string]any {
	return map[string]any{
		"title":     title,
		"isPrimary": isPrimary,
		"personalInfo": map[string]any{
			"fullName": "Dana Developer",
			"jobTitle": "Backend Engineer",
			"email":    "dana@example.com",
		},
		"experiences": []map[string]any{
			{
				"jobTitle":         "Backend Engineer",
				"company":          "Acme",
				"startDate":        "2021-04-01T00:00:00Z",
				"currentlyWorking": true,
				"displayOrder":     1,
			},
		},
	}
}

func TestCVLifecycle(t *testing.T) {
	router := buildApp(t)

	// Create the first CV; it becomes primary implicitly.
	resp := doJSON(t, router, http.MethodPost, "/api/v1/cvs", cvPayload("First CV", false))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var first struct {
		ID        string `json:"id"`
		IsPrimary bool   `json:"isPrimary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if first.ID == "" || !first.IsPrimary {
		t.Fatalf("expected a primary CV with an id, got %+v", first)
	}

	// A second CV stays non-primary.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/cvs", cvPayload("Second CV", false))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var second struct {
		ID        string `json:"id"`
		IsPrimary bool   `json:"isPrimary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&second); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if second.IsPrimary {
		t.Fatal("expected the second CV to not be primary")
	}

	// Promote the second CV.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/cvs/"+second.ID+"/primary", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// The list puts the new primary first and keeps a single primary.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/cvs", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var summaries []struct {
		ID        string `json:"id"`
		IsPrimary bool   `json:"isPrimary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 CVs, got %d", len(summaries))
	}
	if summaries[0].ID != second.ID || !summaries[0].IsPrimary {
		t.Fatalf("expected the promoted CV first, got %+v", summaries[0])
	}
	if summaries[1].IsPrimary {
		t.Fatal("expected a single primary CV")
	}

	// Export renders a PDF.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/cvs/"+first.ID+"/export?template=Classic", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected PDF body")
	}

	// Delete and verify it is gone.
	resp = doJSON(t, router, http.MethodDelete, "/api/v1/cvs/"+first.ID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = doJSON(t, router, http.MethodGet, "/api/v1/cvs/"+first.ID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCVCreateValidation(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/cvs", map[string]any{"title": "No personal info"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %s", body.Error.Code)
	}
}

func TestTemplateCatalogEndpoint(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/templates", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var infos []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		t.Fatalf("decode templates: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(infos))
	}
}

func TestSetPrimaryUnknownCVReturns404(t *testing.T) {
	router := buildApp(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/cvs/nope/primary", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
