package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TFMV/AddressForge/internal/formatter"
	"github.com/TFMV/AddressForge/pkg/rules"
	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	set, err := rules.Load()
	if err != nil {
		t.Fatalf("failed to load rule corpus: %v", err)
	}
	router := gin.New()
	SetupRoutes(router, formatter.New(set))
	return router
}

func TestFormatHandler(t *testing.T) {
	router := newTestRouter(t)

	body := `{"country":"es","components":{"street":"Calle de la Unión","house_number":"2","city":"Madrid","postcode":"28013"},"tag_components":false}`
	req := httptest.NewRequest(http.MethodPost, "/format", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Calle de la Unión, 2") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestFormatHandlerNoResult(t *testing.T) {
	router := newTestRouter(t)

	body := `{"country":"fr","components":{"city":"Paris"}}`
	req := httptest.NewRequest(http.MethodPost, "/format", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "no_result") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestFormatHandlerBadRequest(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/format", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestFormatBatchHandler(t *testing.T) {
	router := newTestRouter(t)

	body := `{"requests":[
		{"country":"es","components":{"street":"Calle Mayor","house_number":"1"},"tag_components":false},
		{"country":"es","components":{"city":"Madrid"}}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/format/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := w.Body.String()
	if !strings.Contains(got, "Calle Mayor, 1") || !strings.Contains(got, "no_result") {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestHealthCheckHandler(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "zuluTime") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}
