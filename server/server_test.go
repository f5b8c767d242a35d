package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nasa-jpl/golab-ueye/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mw := server.Logger(zap.New(core).Sugar())
	ok := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fine"))
	}))
	bad := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fps", nil))
	bad.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/fps", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["status"] != int64(200) {
		t.Errorf("expected an info entry with status 200, got %v %v", entries[0].Level, entries[0].ContextMap())
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].ContextMap()["status"] != int64(500) {
		t.Errorf("expected a warn entry with status 500, got %v %v", entries[1].Level, entries[1].ContextMap())
	}
}
