package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSignTokenRoundTrip(t *testing.T) {
	t.Setenv("IMPACT_JWT_SECRET", "test-secret")
	tok, err := SignToken("u1", "u1@example.org", "ben1", time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	var got *Claims
	h := WithAuth(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || got == nil || got.UID != "u1" || got.Ben != "ben1" {
		t.Fatalf("code=%d claims=%+v", rr.Code, got)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	t.Setenv("IMPACT_JWT_SECRET", "test-secret")
	h := WithAuth(RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not run")
	})))
	for _, hdr := range []string{"", "Bearer nonsense", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if hdr != "" {
			req.Header.Set("Authorization", hdr)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: code=%d", hdr, rr.Code)
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("IMPACT_JWT_SECRET", "test-secret")
	tok, _ := SignToken("u1", "", "", -time.Minute)
	if _, err := parseToken(tok); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestLocaleMiddleware(t *testing.T) {
	var got string
	h := LocaleMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/?lang=de-AT", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "de" {
		t.Fatalf("locale = %q, want de", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.org"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodOptions, "/api/prefs", nil)
	req.Header.Set("Origin", "https://app.example.org")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent || rr.Header().Get("Access-Control-Allow-Origin") != "https://app.example.org" {
		t.Fatalf("preflight code=%d headers=%v", rr.Code, rr.Header())
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow origin for unknown origin")
	}
}

func TestMetricsInstrument(t *testing.T) {
	m := NewMetrics()
	m.GaugeFunc("open_sessions", "Open sessions.", func() float64 { return 3 })
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/meetings/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Instrument(mux)(mux)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/meetings/abc", nil))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	text := string(body)
	if !strings.Contains(text, `impact_http_requests_total{code="404",method="GET",route="GET /api/meetings/{id}"} 1`) {
		t.Fatalf("request counter missing:\n%s", text)
	}
	if !strings.Contains(text, "impact_open_sessions 3") {
		t.Fatalf("gauge missing:\n%s", text)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mk("a"), mk("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Join(order, ",") != "a,b,h" {
		t.Fatalf("order = %v", order)
	}
}
