package imgrec

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/nasa-jpl/golab-ueye/generichttp"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
}

func TestWriteUsesDatedFolder(t *testing.T) {
	root := t.TempDir()
	r := New(root, "cam", true)
	r.now = fixedClock
	if _, err := r.Write([]byte("SIMPLE")); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "2026-03-04", "cam000000.fits")
	if r.Path() != want {
		t.Errorf("expected path %s, got %s", want, r.Path())
	}
	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "SIMPLE" {
		t.Errorf("expected file contents SIMPLE, got %q", b)
	}
}

func TestWriteAppendsUntilIncr(t *testing.T) {
	root := t.TempDir()
	r := New(root, "cam", true)
	r.now = fixedClock
	r.Write([]byte("ab"))
	r.Write([]byte("cd"))
	first := r.Path()
	if err := r.Incr(); err != nil {
		t.Fatal(err)
	}
	r.Write([]byte("ef"))
	b, _ := os.ReadFile(first)
	if string(b) != "abcd" {
		t.Errorf("expected both writes in the first file, got %q", b)
	}
	if !strings.HasSuffix(r.Path(), "cam000001.fits") {
		t.Errorf("expected the counter to move to 1, path is %s", r.Path())
	}
}

func TestIncrSkipsOtherFiles(t *testing.T) {
	root := t.TempDir()
	r := New(root, "cam", true)
	r.now = fixedClock
	dir := filepath.Join(root, "2026-03-04")
	os.MkdirAll(dir, 0777)
	for _, fn := range []string{"cam000007.fits", "other000050.fits", "cam000003.fits", "camnotes.fits", "cam000099.txt"} {
		os.WriteFile(filepath.Join(dir, fn), nil, 0666)
	}
	if err := r.Incr(); err != nil {
		t.Fatal(err)
	}
	if r.counter != 8 {
		t.Errorf("expected counter 8, got %d", r.counter)
	}
}

func TestActive(t *testing.T) {
	r := New("", "cam", true)
	if r.Active() {
		t.Error("expected a recorder without a root to be inactive")
	}
	r = New(t.TempDir(), "cam", false)
	if r.Active() {
		t.Error("expected a disabled recorder to be inactive")
	}
	r.SetEnabled(true)
	if !r.Active() {
		t.Error("expected an enabled recorder with a root to be active")
	}
}

type table generichttp.RouteTable

func (t table) RT() generichttp.RouteTable { return generichttp.RouteTable(t) }

func TestHTTPWrapper(t *testing.T) {
	rec := New("", "", false)
	rt := table{}
	NewHTTPWrapper(rec).Inject(rt)
	r := chi.NewRouter()
	rt.RT().Bind(r)

	root := t.TempDir()
	posts := map[string]string{
		"/autowrite/root":    `{"str":"` + filepath.ToSlash(root) + `"}`,
		"/autowrite/prefix":  `{"str":"burst"}`,
		"/autowrite/enabled": `{"bool":true}`,
	}
	for path, body := range posts {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		if w.Code != http.StatusOK {
			t.Errorf("POST %s: expected 200, got %d", path, w.Code)
		}
	}
	if rec.Prefix() != "burst" || !rec.Enabled() || !rec.Active() {
		t.Errorf("unexpected recorder state prefix=%q enabled=%v", rec.Prefix(), rec.Enabled())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/autowrite/prefix", nil))
	if got := strings.TrimSpace(w.Body.String()); got != `{"str":"burst"}` {
		t.Errorf("unexpected prefix payload %s", got)
	}
}
