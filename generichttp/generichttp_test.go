package generichttp_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/go-cmp/cmp"
	"github.com/nasa-jpl/golab-ueye/generichttp"
)

func ExampleSubMuxSanitize() {
	fmt.Println(generichttp.SubMuxSanitize("camera/"))
	fmt.Println(generichttp.SubMuxSanitize("/"))
	// Output:
	// /camera
	// /
}

type slowErr struct{}

func (slowErr) Error() string { return "slow" }
func (slowErr) Timeout() bool { return true }

type rangeErr struct{}

func (rangeErr) Error() string  { return "out of range" }
func (rangeErr) BadInput() bool { return true }

func TestErrorStatus(t *testing.T) {
	if s := generichttp.ErrorStatus(errors.New("boom")); s != http.StatusInternalServerError {
		t.Errorf("expected 500 for a plain error, got %d", s)
	}
	wrapped := fmt.Errorf("waiting: %w", slowErr{})
	if s := generichttp.ErrorStatus(wrapped); s != http.StatusGatewayTimeout {
		t.Errorf("expected 504 for a wrapped timeout, got %d", s)
	}
	if s := generichttp.ErrorStatus(fmt.Errorf("setting aoi: %w", rangeErr{})); s != http.StatusBadRequest {
		t.Errorf("expected 400 for bad input, got %d", s)
	}
}

func TestGetFloatJSON(t *testing.T) {
	h := generichttp.GetFloat(func() (float64, error) { return 1.5, nil })
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := strings.TrimSpace(w.Body.String()); got != `{"f64":1.5}` {
		t.Errorf("expected {\"f64\":1.5}, got %s", got)
	}
}

func TestGetFloatText(t *testing.T) {
	h := generichttp.GetFloat(func() (float64, error) { return 1.5, nil })
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "text/plain")
	h(w, r)
	if got := w.Body.String(); got != "1.5" {
		t.Errorf("expected 1.5, got %s", got)
	}
}

func TestSetIntBadBody(t *testing.T) {
	called := false
	h := generichttp.SetInt(func(int) error { called = true; return nil })
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if called {
		t.Error("expected the setter not to be called")
	}
}

func TestSetBoolTimeout(t *testing.T) {
	h := generichttp.SetBool(func(bool) error { return slowErr{} })
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"bool":true}`)))
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", w.Code)
	}
}

func TestBindAndEndpoints(t *testing.T) {
	var got string
	rt := generichttp.RouteTable{
		{Method: http.MethodPost, Path: "/name"}: generichttp.SetString(func(s string) error { got = s; return nil }),
		{Method: http.MethodGet, Path: "/name"}:  generichttp.GetString(func() (string, error) { return got, nil }),
	}
	r := chi.NewRouter()
	rt.Bind(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/name", strings.NewReader(`{"str":"ueye"}`)))
	if w.Code != http.StatusOK || got != "ueye" {
		t.Fatalf("expected the setter called with ueye, code %d got %q", w.Code, got)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/name", nil))
	if body := strings.TrimSpace(w.Body.String()); body != `{"str":"ueye"}` {
		t.Errorf("unexpected body %s", body)
	}
	want := []string{"GET /name", "POST /name"}
	if diff := cmp.Diff(want, rt.Endpoints()); diff != "" {
		t.Errorf("endpoints mismatch (-want +got):\n%s", diff)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/endpoints", nil))
	if body := strings.TrimSpace(w.Body.String()); body != `["GET /name","POST /name"]` {
		t.Errorf("unexpected endpoint listing %s", body)
	}
}
