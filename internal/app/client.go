package app

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/nhle/mailpane/internal/credential"
	"github.com/nhle/mailpane/internal/mailbox"
	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/remote"
)

// tokenEnv overrides the keyring-stored API token.
const tokenEnv = "MAILPANE_API_TOKEN"

var tokens = credential.NewTokenStore()

// Client is the mail API surface the UI needs.
type Client interface {
	mailbox.Remote
	Health(ctx context.Context) error
}

// LoadAPIToken returns the bearer token for the mail API from the
// environment, falling back to the system keyring. It returns "" when
// neither holds one.
func LoadAPIToken() string {
	if token := os.Getenv(tokenEnv); token != "" {
		return token
	}

	token, err := tokens.Token()
	if err != nil {
		if !errors.Is(err, credential.ErrNoToken) {
			log.Printf("loading API token: %v", err)
		}
		return ""
	}
	return token
}

// NewClient builds the REST client described by cfg.
func NewClient(cfg *model.AppConfig) *remote.Client {
	timeout := time.Duration(cfg.API.TimeoutSec) * time.Second
	return remote.NewClient(cfg.API.BaseURL, LoadAPIToken(), timeout)
}

// probeAPI returns a settings probe that health-checks a candidate URL,
// using the stored token when none is given.
func probeAPI(timeout time.Duration) func(ctx context.Context, baseURL, token string) error {
	return func(ctx context.Context, baseURL, token string) error {
		if token == "" {
			token = LoadAPIToken()
		}
		return remote.NewClient(baseURL, token, timeout).Health(ctx)
	}
}

func saveAPIToken(token string) error {
	return tokens.SaveToken(token)
}

func deleteAPIToken() error {
	return tokens.ClearToken()
}
