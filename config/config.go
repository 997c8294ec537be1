// Package config loads the shoplcon configuration from SHOPLCON_ environment variables.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopl/shoplcon/github"
	"github.com/shopl/shoplcon/publish"
	"github.com/shopl/shoplcon/route"
)

// Config is the environment configuration.
type Config struct {
	APIURL     string `env:"SHOPLCON_GITHUB_API_URL" envDefault:"https://api.github.com"`
	Owner      string `env:"SHOPLCON_GITHUB_OWNER" envDefault:"shopl"`
	Repo       string `env:"SHOPLCON_GITHUB_REPO" envDefault:"shoplflow"`
	BaseBranch string `env:"SHOPLCON_BASE_BRANCH" envDefault:"main"`
	Branch     string `env:"SHOPLCON_BRANCH" envDefault:"update/icon"`

	Token          string `env:"SHOPLCON_GITHUB_TOKEN"`
	AppID          string `env:"SHOPLCON_GITHUB_APP_ID"`
	InstallationID int64  `env:"SHOPLCON_GITHUB_INSTALLATION_ID"`
	AppKeyPath     string `env:"SHOPLCON_GITHUB_APP_KEY"`

	UploadMessage string   `env:"SHOPLCON_UPLOAD_MESSAGE" envDefault:"icon 추가/업데이트"`
	DeleteMessage string   `env:"SHOPLCON_DELETE_MESSAGE" envDefault:"icon 삭제"`
	WebBrands     []string `env:"SHOPLCON_WEB_BRANDS" envDefault:"shopl" envSeparator:","`
	WebPath       string   `env:"SHOPLCON_WEB_PATH" envDefault:"packages/{prefix}-assets/src/icons/assets/{file}.svg"`
	MobileRoot    string   `env:"SHOPLCON_MOBILE_ROOT" envDefault:"packages/mobile-assets/src/main/res/drawable"`
	MinifyWeb     bool     `env:"SHOPLCON_MINIFY_WEB"`
	Density       string   `env:"SHOPLCON_DENSITY" envDefault:"dp"`

	HTTPTimeout time.Duration `env:"SHOPLCON_HTTP_TIMEOUT" envDefault:"30s"`
	TokenFile   string        `env:"SHOPLCON_TOKEN_FILE"`
	Passphrase  string        `env:"SHOPLCON_PASSPHRASE"`
	JournalPath string        `env:"SHOPLCON_JOURNAL"`

	OTELEndpoint string `env:"SHOPLCON_OTEL_ENDPOINT"`
	OTELEnabled  bool   `env:"SHOPLCON_OTEL_ENABLED" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing or inconsistent values.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Owner) == "" || strings.TrimSpace(cfg.Repo) == "" {
		return fmt.Errorf("SHOPLCON_GITHUB_OWNER and SHOPLCON_GITHUB_REPO are required")
	}
	if strings.TrimSpace(cfg.Branch) == "" || strings.TrimSpace(cfg.BaseBranch) == "" {
		return fmt.Errorf("SHOPLCON_BRANCH and SHOPLCON_BASE_BRANCH are required")
	}
	if cfg.Branch == cfg.BaseBranch {
		return fmt.Errorf("working branch must differ from base branch %s", cfg.BaseBranch)
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("SHOPLCON_HTTP_TIMEOUT must be positive")
	}
	if cfg.AppID != "" && (cfg.InstallationID == 0 || cfg.AppKeyPath == "") {
		return fmt.Errorf("SHOPLCON_GITHUB_INSTALLATION_ID and SHOPLCON_GITHUB_APP_KEY are required with SHOPLCON_GITHUB_APP_ID")
	}
	return nil
}

// Policy returns the routing policy.
func (cfg Config) Policy() route.Policy {
	brands := []string{}
	for _, brand := range cfg.WebBrands {
		if brand = strings.TrimSpace(brand); brand != "" {
			brands = append(brands, brand)
		}
	}
	return route.Policy{
		WebBrands:  brands,
		WebPath:    cfg.WebPath,
		MobileRoot: cfg.MobileRoot,
		Branch:     cfg.Branch,
	}
}

// PublishOptions returns the publisher options, transcoding with transcode.
func (cfg Config) PublishOptions(transcode func(string) (string, error)) publish.Options {
	return publish.Options{
		BaseBranch:    cfg.BaseBranch,
		Policy:        cfg.Policy(),
		UploadMessage: cfg.UploadMessage,
		DeleteMessage: cfg.DeleteMessage,
		MinifyWeb:     cfg.MinifyWeb,
		Transcode:     transcode,
	}
}

// TokenSource returns the GitHub App token source when an App is configured, else the static
// token. Without either, stored is called to obtain a token, for instance from the token store.
func (cfg Config) TokenSource(stored func() (string, error)) (github.TokenSource, error) {
	if cfg.AppID != "" {
		b, err := os.ReadFile(cfg.AppKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read app key: %w", err)
		}
		key, err := github.ParseAppKey(b)
		if err != nil {
			return nil, err
		}
		src := github.NewAppTokenSource(cfg.APIURL, cfg.AppID, cfg.InstallationID, key)
		src.HTTP.Timeout = cfg.HTTPTimeout
		return src, nil
	} else if cfg.Token != "" {
		return github.StaticToken(cfg.Token), nil
	} else if stored == nil {
		return nil, fmt.Errorf("no GitHub token, set SHOPLCON_GITHUB_TOKEN")
	}

	token, err := stored()
	if err != nil {
		return nil, err
	}
	return github.StaticToken(token), nil
}

// Client returns the GitHub client of the repository.
func (cfg Config) Client(tokens github.TokenSource) *github.Client {
	c := github.NewClient(cfg.APIURL, cfg.Owner, cfg.Repo, tokens)
	c.HTTP = &http.Client{Timeout: cfg.HTTPTimeout}
	return c
}
