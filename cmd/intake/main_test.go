package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/doctordroid/intake/internal/config"
	"github.com/doctordroid/intake/internal/domain/catalog"
	"github.com/doctordroid/intake/internal/domain/consultation"
	"github.com/doctordroid/intake/internal/domain/selection"
	"github.com/doctordroid/intake/internal/platform/auth"
)

func testConfig(engineURL string) *config.Config {
	return &config.Config{
		Env:                "test",
		LogLevel:           "debug",
		EngineURL:          engineURL,
		EngineTimeout:      5 * time.Second,
		EngineAuthIssuer:   "doctor-droid-intake",
		EngineAuthAudience: "doctor-droid-engine",
		CORSOrigins:        []string{"http://localhost:3000"},
		RequestTimeout:     5 * time.Second,
	}
}

func TestNewLogger_Level(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.LogLevel = "warn"
	var buf bytes.Buffer
	logger := newLogger(cfg, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output: %s", buf.String())
	}

	cfg.LogLevel = "nonsense"
	if newLogger(cfg, io.Discard).GetLevel() != zerolog.InfoLevel {
		t.Error("expected invalid level to fall back to info")
	}
}

func TestLoadCatalog_Builtin(t *testing.T) {
	cat, err := loadCatalog(context.Background(), testConfig("http://localhost"), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Symptoms) != 25 {
		t.Errorf("expected builtin catalog, got %d symptoms", len(cat.Symptoms))
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	os.WriteFile(path, []byte("symptoms:\n  - id: fever\n    label: Fever\n"), 0644)

	cfg := testConfig("http://localhost")
	cfg.CatalogFile = path
	cat, err := loadCatalog(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Symptoms) != 1 {
		t.Errorf("expected file catalog, got %d symptoms", len(cat.Symptoms))
	}
}

func TestSelectAll(t *testing.T) {
	store := selection.NewStore()
	err := selectAll(catalog.Default(), store, []string{"fever", "cough", "fever"}, []string{"penicillin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.Symptoms(); len(got) != 2 || got[0] != "fever" || got[1] != "cough" {
		t.Errorf("repeated ids must select once, got %v", got)
	}

	if err := selectAll(catalog.Default(), selection.NewStore(), []string{"penicillin"}, nil); err == nil {
		t.Error("expected error for allergy id passed as symptom")
	}
	if err := selectAll(catalog.Default(), selection.NewStore(), nil, []string{"latex"}); err == nil {
		t.Error("expected error for unknown allergy")
	}
}

func TestNewEngineClient_SignsWhenSecretSet(t *testing.T) {
	cfg := testConfig("")
	cfg.EngineAuthSecret = "console-test-secret-with-enough-length"
	verifier, _ := newSigner(cfg)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, err := verifier.Verify(token); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"status":"success","diagnoses":[],"warnings":[]}`))
	}))
	defer srv.Close()
	cfg.EngineURL = srv.URL

	client, err := newEngineClient(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.Submit(context.Background(), consultation.Request{Symptoms: []string{"fever"}}); err != nil {
		t.Fatalf("expected signed request to be accepted, got %v", err)
	}
}

func TestServer_ConsultationFlow(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","diagnoses":[{"disease":"strep_throat","treatment":"amoxicillin","explanation":"Sore throat with fever."}],"warnings":["alert_penicillin"]}`))
	}))
	defer engine.Close()

	cfg := testConfig(engine.URL)
	client, _ := newEngineClient(cfg, zerolog.Nop())
	e := newServer(cfg, zerolog.Nop(), catalog.Default(), client)

	do := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	if rec := do(http.MethodGet, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("expected healthy, got %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/api/v1/consultation"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 without symptoms, got %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/api/v1/selection/symptoms/unknown"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown symptom, got %d", rec.Code)
	}
	do(http.MethodPost, "/api/v1/selection/symptoms/sore_throat")
	do(http.MethodPost, "/api/v1/selection/allergies/penicillin")

	rec := do(http.MethodPost, "/api/v1/consultation")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if !strings.Contains(rec.Body.String(), consultation.PenicillinText) {
		t.Errorf("expected penicillin warning in %s", rec.Body.String())
	}

	if rec := do(http.MethodGet, "/api/v1/consultation"); !strings.Contains(rec.Body.String(), `"state":"success"`) {
		t.Errorf("expected success outcome, got %s", rec.Body.String())
	}
	if rec := do(http.MethodDelete, "/api/v1/consultation"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 cancelling with nothing in flight, got %d", rec.Code)
	}
}

var _ consultation.TokenSource = (*auth.EngineSigner)(nil)
