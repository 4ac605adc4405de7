package services

import (
	"errors"
	"net/url"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are the fields read from the identity provider's id token.
type IdentityClaims struct {
	Email       string `json:"email"`
	Beneficiary string `json:"https://app.impactasaurus.org/beneficiary,omitempty"`
	jwt.RegisteredClaims
}

// TokenSigner issues the API session token for an authenticated user.
type TokenSigner func(uid, email, beneficiary string, ttl time.Duration) (string, error)

type AuthService struct {
	idpSecret []byte
	audience  string
	signToken TokenSigner
	tracker   Tracker
	tokenTTL  time.Duration
}

// AuthOutcome is the result of the redirect handshake: a flag and a message
// on failure, a token on success.
type AuthOutcome struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message,omitempty"`
	Token       string `json:"token,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Beneficiary string `json:"beneficiary,omitempty"`
}

func NewAuthService(idpSecret, audience string, signer TokenSigner, tracker Tracker) *AuthService {
	if tracker == nil {
		tracker = NopTracker{}
	}
	return &AuthService{
		idpSecret: []byte(idpSecret),
		audience:  audience,
		signToken: signer,
		tracker:   tracker,
		tokenTTL:  30 * 24 * time.Hour,
	}
}

func (s *AuthService) TokenTTL() time.Duration { return s.tokenTTL }

// ParseRedirect handles the fragment the identity provider appends to the
// callback URL, e.g. "id_token=..." or "error=...&error_description=...".
func (s *AuthService) ParseRedirect(fragment string) AuthOutcome {
	out := s.parseRedirect(fragment)
	if !out.OK {
		s.tracker.Event("login", "failed", out.Message)
	}
	return out
}

func (s *AuthService) parseRedirect(fragment string) AuthOutcome {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return AuthOutcome{Message: "malformed redirect"}
	}
	if e := values.Get("error"); e != "" {
		msg := values.Get("error_description")
		if msg == "" {
			msg = e
		}
		return AuthOutcome{Message: msg}
	}
	raw := values.Get("id_token")
	if raw == "" {
		return AuthOutcome{Message: "no id token in redirect"}
	}
	claims, err := s.verify(raw)
	if err != nil {
		return AuthOutcome{Message: err.Error()}
	}
	if s.signToken == nil {
		return AuthOutcome{Message: "token signer not configured"}
	}
	token, err := s.signToken(claims.Subject, claims.Email, claims.Beneficiary, s.tokenTTL)
	if err != nil {
		return AuthOutcome{Message: "failed to issue session token"}
	}
	return AuthOutcome{OK: true, Token: token, UserID: claims.Subject, Beneficiary: claims.Beneficiary}
}

func (s *AuthService) verify(raw string) (*IdentityClaims, error) {
	if len(s.idpSecret) == 0 {
		return nil, errors.New("identity provider not configured")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}
	t, err := jwt.ParseWithClaims(raw, &IdentityClaims{}, func(*jwt.Token) (interface{}, error) { return s.idpSecret, nil }, opts...)
	if err != nil {
		return nil, errors.New("invalid id token")
	}
	c, ok := t.Claims.(*IdentityClaims)
	if !ok || !t.Valid || c.Subject == "" {
		return nil, errors.New("invalid id token")
	}
	return c, nil
}
