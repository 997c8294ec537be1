package github

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource returns the token used to authenticate requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a personal access token.
type StaticToken string

// Token returns the token.
func (t StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", errors.New("empty token")
	}
	return string(t), nil
}

// ParseAppKey parses the PEM encoded private key of a GitHub App.
func ParseAppKey(pem []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse app key: %w", err)
	}
	return key, nil
}

// AppTokenSource returns installation tokens of a GitHub App. The App authenticates with a
// short-lived RS256 JWT, and installation tokens are reused until a minute before they expire.
type AppTokenSource struct {
	BaseURL        string
	AppID          string
	InstallationID int64
	Key            *rsa.PrivateKey
	HTTP           *http.Client
	Now            func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewAppTokenSource returns a token source for the installation of an App. An empty baseURL uses
// DefaultBaseURL.
func NewAppTokenSource(baseURL, appID string, installationID int64, key *rsa.PrivateKey) *AppTokenSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AppTokenSource{
		BaseURL:        strings.TrimSuffix(baseURL, "/"),
		AppID:          appID,
		InstallationID: installationID,
		Key:            key,
		HTTP:           &http.Client{Timeout: 30 * time.Second},
		Now:            time.Now,
	}
}

// JWT returns a signed token that authenticates as the App, valid for nine minutes. It is issued
// a minute in the past to allow for clock drift.
func (s *AppTokenSource) JWT() (string, error) {
	now := s.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.AppID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.Key)
}

// Token returns an installation token, requesting a new one when the cached token is about to expire.
func (s *AppTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && s.Now().Before(s.expires.Add(-time.Minute)) {
		return s.token, nil
	}

	signed, err := s.JWT()
	if err != nil {
		return "", fmt.Errorf("sign app jwt: %w", err)
	}
	u := fmt.Sprintf("%s/app/installations/%d/access_tokens", s.BaseURL, s.InstallationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(nil))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
		Message   string    `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode == http.StatusCreated {
		return "", fmt.Errorf("decode installation token: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", &APIError{StatusCode: resp.StatusCode, Message: out.Message}
	}
	s.token, s.expires = out.Token, out.ExpiresAt
	return s.token, nil
}
