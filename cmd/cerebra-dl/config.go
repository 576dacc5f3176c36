// ABOUTME: Environment configuration, logger and client construction
// ABOUTME: Shared plumbing for the cerebra-dl subcommands
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cerebra-health/cerebra-go/pkg/auth"
	"github.com/cerebra-health/cerebra-go/pkg/cerebra"
)

// defaultToTime is the window end used when none is given: far enough
// out to cover any recording.
const defaultToTime = 9e12

// envConfig holds the settings read from the environment.
type envConfig struct {
	Email    string `env:"CEREBRA_EMAIL"`
	Password string `env:"CEREBRA_PASSWORD"`
	APIKey   string `env:"CEREBRA_API_KEY"`
	APIURL   string `env:"CEREBRA_API_URL"`
	PartyID  string `env:"CEREBRA_PARTY_ID"`
}

// loadEnv reads the environment, letting a local .env file fill gaps.
func loadEnv() (envConfig, error) {
	_ = godotenv.Load()
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildLogger builds a development logger when verbose, otherwise a
// production logger that stays quiet below warnings.
func buildLogger(verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// newClient builds the SDK client from the environment. An API key
// wins over email/password.
func newClient(cfg envConfig, log *zap.Logger) (*cerebra.Client, error) {
	var provider auth.Provider
	switch {
	case cfg.APIKey != "":
		provider = &auth.APIKeyAuth{Token: cfg.APIKey}
	case cfg.Email != "" && cfg.Password != "":
		provider = auth.NewSessionAuth(auth.SessionConfig{
			APIURL:   apiURL(cfg),
			Email:    cfg.Email,
			Password: cfg.Password,
			Logger:   log,
		})
	default:
		return nil, errors.New("set CEREBRA_API_KEY or CEREBRA_EMAIL and CEREBRA_PASSWORD")
	}

	return cerebra.New(cerebra.Config{
		APIURL:  apiURL(cfg),
		Auth:    provider,
		PartyID: cfg.PartyID,
		Logger:  log,
	}), nil
}

func apiURL(cfg envConfig) string {
	if cfg.APIURL != "" {
		return cfg.APIURL
	}
	return cerebra.DefaultAPIURL
}

// setup loads the environment and builds the logger and client shared
// by every subcommand. A non-zero code means setup failed and was
// already reported.
func setup(verbose bool) (*cerebra.Client, *zap.Logger, int) {
	cfg, err := loadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, ExitInvalidArgs
	}
	log, err := buildLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, ExitGeneralError
	}
	client, err := newClient(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, nil, ExitAuthError
	}
	return client, log, ExitSuccess
}

// signalContext returns a context canceled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()
	return ctx, cancel
}

// parseTime accepts epoch milliseconds or RFC 3339 and returns epoch
// milliseconds. Empty input returns the fallback.
func parseTime(value string, fallback float64) (float64, error) {
	if value == "" {
		return fallback, nil
	}
	if ms, err := strconv.ParseFloat(value, 64); err == nil {
		return ms, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, fmt.Errorf("want epoch milliseconds or RFC 3339, got %q", value)
	}
	return float64(ts.UnixMilli()), nil
}
