package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0}, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		origin  string
		allowed bool
	}{
		{"allow all", Config{AllowAll: true}, "http://example.com", true},
		{"localhost", Config{}, "http://localhost:3000", true},
		{"configured origin", Config{AllowedOrigins: []string{"https://gly.example"}}, "https://gly.example", true},
		{"unknown origin", Config{}, "http://example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(tt.cfg, nil)

			req := httptest.NewRequest("OPTIONS", "/healthz", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", "GET")
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)

			got := w.Header().Get("Access-Control-Allow-Origin") != ""
			if got != tt.allowed {
				t.Errorf("Allow-Origin present = %v, want %v", got, tt.allowed)
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := New(Config{}, zap.New(core))
	srv.Router().Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/teapot", nil))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/teapot" {
		t.Errorf("path = %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status = %v", fields["status"])
	}
}

func TestProxyHeaders(t *testing.T) {
	tests := []struct {
		name  string
		trust bool
		want  string
	}{
		{"ignored by default", false, "192.0.2.10:4000"},
		{"trusted behind a proxy", true, "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(Config{TrustProxy: tt.trust}, nil)
			var got string
			srv.Router().Get("/addr", func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			})

			req := httptest.NewRequest("GET", "/addr", nil)
			req.RemoteAddr = "192.0.2.10:4000"
			req.Header.Set("X-Forwarded-For", "203.0.113.7")
			srv.Router().ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimeoutSkipsWebSocket(t *testing.T) {
	srv := New(Config{RequestTimeout: 20 * time.Millisecond}, nil)
	upgrader := websocket.Upgrader{}
	srv.Router().Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(60 * time.Millisecond)
		conn.WriteMessage(websocket.TextMessage, []byte("still here"))
	})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "still here" {
		t.Errorf("got %q", msg)
	}
}

func TestServeAndShutdown(t *testing.T) {
	srv := New(Config{}, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-done; !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Serve returned %v", err)
	}
}
