//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// The server under test must run with IMPACT_SEED_FILE pointing at
// internal/api/testdata/seed.yaml and IMPACT_IDP_SECRET matching
// IMPACT_TEST_IDP_SECRET.

func baseURL() string {
	if v := os.Getenv("IMPACT_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

func idpSecret() string {
	if v := os.Getenv("IMPACT_TEST_IDP_SECRET"); v != "" {
		return v
	}
	return "integration-idp-secret"
}

func idToken(t *testing.T, sub string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.org",
		"exp":   time.Now().Add(5 * time.Minute).Unix(),
	}
	if aud := os.Getenv("IMPACT_TEST_IDP_AUDIENCE"); aud != "" {
		claims["aud"] = aud
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(idpSecret()))
	if err != nil {
		t.Fatalf("sign id token: %v", err)
	}
	return s
}

func TestAssessmentJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	var login struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
	}
	do(t, client, http.MethodPost, base+"/api/auth/callback", "", map[string]string{
		"hash": "#id_token=" + url.QueryEscape(idToken(t, "integration-worker")),
	}, &login)
	if !login.OK || login.Token == "" {
		t.Fatalf("login failed: %+v", login)
	}
	token := login.Token

	var start struct {
		Session struct {
			SessionID string `json:"session_id"`
			Total     int    `json:"total"`
		} `json:"session"`
	}
	do(t, client, http.MethodPost, base+"/api/meetings/m-open/sessions", token, nil, &start)
	if start.Session.SessionID == "" || start.Session.Total != 3 {
		t.Fatalf("unexpected session: %+v", start)
	}
	sess := base + "/api/sessions/" + start.Session.SessionID
	for _, v := range []float64{3, 4, 5} {
		do(t, client, http.MethodPost, sess+"/answer", token, map[string]float64{"value": v}, nil)
	}
	var done struct {
		Redirect string `json:"redirect"`
	}
	do(t, client, http.MethodPost, sess+"/complete", token, nil, &done)
	if done.Redirect != "/beneficiary/ben-1?q=wellbeing" {
		t.Fatalf("unexpected redirect %q", done.Redirect)
	}

	var out struct {
		Comparison struct {
			Last struct {
				ID string `json:"id"`
			} `json:"last"`
			Rows []struct {
				Name string   `json:"name"`
				Last *float64 `json:"last"`
			} `json:"rows"`
		} `json:"comparison"`
	}
	do(t, client, http.MethodGet, base+"/api/beneficiaries/ben-1/comparison?q=wellbeing&agg=category", token, nil, &out)
	cmp := out.Comparison
	if cmp.Last.ID != "m-open" || len(cmp.Rows) != 2 || cmp.Rows[0].Last == nil || *cmp.Rows[0].Last != 3.5 {
		t.Fatalf("comparison after completion: %+v", cmp)
	}

	resp, err := client.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "impact_http_requests_total") {
		t.Fatalf("metrics missing request counter")
	}
}

func do(t *testing.T, client *http.Client, method, target, token string, body any, out any) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, target, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http %s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, target, string(bodyBytes))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", target, err)
		}
	}
}
