package config

import (
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	// JWTSecret signs and verifies dashboard bearer tokens.
	JWTSecret string

	// ServerURL is this service's public base URL, embedded in reclaim
	// verification callback URLs. AppURL is the claimant web app.
	ServerURL string
	AppURL    string

	ClaimServerURL     string
	SocketServerURL    string
	SocketServerAPIKey string

	// ScanSigPrefix is the personal-sign message prefix claimant devices
	// sign together with the scan id.
	ScanSigPrefix string

	ReclaimAppID      string
	ReclaimAppSecret  string
	ReclaimProviderID string
	// ReclaimWitnesses restricts accepted proof signers; empty accepts any
	// recoverable witness.
	ReclaimWitnesses []string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "drophub"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	prefix := os.Getenv("SCAN_ID_SIG_MESSAGE")
	if prefix == "" {
		prefix = "signing claim link for"
	}

	var witnesses []string
	for _, value := range strings.Split(os.Getenv("RECLAIM_WITNESS_ADDRESSES"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			witnesses = append(witnesses, value)
		}
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		ServerURL: os.Getenv("SERVER_URL"),
		AppURL:    os.Getenv("APP_URL"),

		ClaimServerURL:     os.Getenv("CLAIM_SERVER_URL"),
		SocketServerURL:    os.Getenv("SOCKET_SERVER_URL"),
		SocketServerAPIKey: os.Getenv("SOCKET_SERVER_API_KEY"),

		ScanSigPrefix: prefix,

		ReclaimAppID:      os.Getenv("RECLAIM_APP_ID"),
		ReclaimAppSecret:  os.Getenv("RECLAIM_APP_SECRET"),
		ReclaimProviderID: os.Getenv("RECLAIM_PROVIDER_ID"),
		ReclaimWitnesses:  witnesses,
	}, nil
}
