package github

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tdewolff/test"
)

func TestStaticToken(t *testing.T) {
	token, err := StaticToken("abc").Token(context.Background())
	test.Error(t, err)
	test.String(t, token, "abc")

	_, err = StaticToken(" ").Token(context.Background())
	test.That(t, err != nil)
}

func TestParseAppKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	test.Error(t, err)
	b := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	parsed, err := ParseAppKey(b)
	test.Error(t, err)
	test.That(t, parsed.Equal(key))

	_, err = ParseAppKey([]byte("not a key"))
	test.That(t, err != nil)
}

func TestAppTokenSource(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	test.Error(t, err)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/app/installations/42/access_tokens" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		claims := jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "), &claims, func(*jwt.Token) (any, error) {
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithoutClaimsValidation())
		if err != nil || claims.Issuer != "1234" || !claims.IssuedAt.Time.Equal(now.Add(-time.Minute)) || !claims.ExpiresAt.Time.Equal(now.Add(9*time.Minute)) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "bad jwt"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":      "inst-token",
			"expires_at": now.Add(time.Hour),
		})
	}))
	defer srv.Close()

	s := NewAppTokenSource(srv.URL, "1234", 42, key)
	s.Now = func() time.Time { return now }

	token, err := s.Token(context.Background())
	test.Error(t, err)
	test.String(t, token, "inst-token")

	now = now.Add(30 * time.Minute)
	_, err = s.Token(context.Background())
	test.Error(t, err)
	test.T(t, requests, 1)

	// refreshed within a minute of expiry
	now = now.Add(29*time.Minute + 30*time.Second)
	_, err = s.Token(context.Background())
	test.Error(t, err)
	test.T(t, requests, 2)
}

func TestAppTokenSourceRejected(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	test.Error(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "A JSON web token could not be decoded"})
	}))
	defer srv.Close()

	_, err = NewAppTokenSource(srv.URL, "1", 1, key).Token(context.Background())
	test.String(t, err.Error(), "github: 401 A JSON web token could not be decoded")
}
