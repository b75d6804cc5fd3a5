package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/swaggest/openapi-go/openapi3"
)

func TestHandleOpenAPI(t *testing.T) {
	h := handleOpenAPI()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()

	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("content-type = %q, want application/json", got)
	}

	body := rec.Body.String()
	for _, path := range []string{
		`"/healthz"`,
		`"/api/stats"`,
		`"/api/time-limits/{difficulty}"`,
		`"/api/charts/{chart}/marks"`,
		`"/api/charts/{chart}/marks/{markID}/hints/{level}"`,
		`"/api/charts/{chart}/questions"`,
		`"/api/charts/{chart}/guesses"`,
		`"/api/admin/charts/{chart}/marks"`,
	} {
		if !strings.Contains(body, path) {
			t.Errorf("body missing %s path", path)
		}
	}
}

func TestOpenAPISpecOperations(t *testing.T) {
	spec, err := newOpenAPISpec()
	if err != nil {
		t.Fatalf("newOpenAPISpec: %v", err)
	}

	if got := len(spec.Paths.MapOfPathItemValues); got != 8 {
		t.Errorf("documented paths = %d, want 8", got)
	}

	item := spec.Paths.MapOfPathItemValues["/api/charts/{chart}/marks/{markID}/hints/{level}"]
	op, ok := item.MapOfOperationValues["get"]
	if !ok {
		t.Fatal("hint operation missing")
	}
	params := map[string]bool{}
	for _, p := range op.Parameters {
		if p.Parameter != nil && p.Parameter.In == openapi3.ParameterInPath {
			params[p.Parameter.Name] = true
		}
	}
	for _, name := range []string{"chart", "markID", "level"} {
		if !params[name] {
			t.Errorf("hint operation missing path parameter %q", name)
		}
	}
}

func TestSwaggerUIMounted(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/docs/", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/html") {
		t.Fatalf("content-type = %q, want text/html", got)
	}
	if !strings.Contains(rec.Body.String(), "Markquiz API") {
		t.Fatal("body missing page title")
	}
}
