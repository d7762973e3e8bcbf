package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	StoreCSV    = "csv"
	StoreSQLite = "sqlite"
)

type APIConfig struct {
	Addr            string
	RoundsPath      string
	StoreKind       string
	SubmissionsPath string
	DBPath          string
	AdminToken      string
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("TRG_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:            addr,
		RoundsPath:      envDefault("TRG_ROUNDS_PATH", "game_config.csv"),
		StoreKind:       strings.ToLower(envDefault("TRG_STORE", StoreCSV)),
		SubmissionsPath: envDefault("TRG_SUBMISSIONS_PATH", "submissions.csv"),
		DBPath:          envDefault("TRG_DB_PATH", "submissions.db"),
		AdminToken:      strings.TrimSpace(os.Getenv("TRG_ADMIN_TOKEN")),
	}
	switch cfg.StoreKind {
	case StoreCSV, StoreSQLite:
	default:
		return cfg, fmt.Errorf("TRG_STORE must be %q or %q", StoreCSV, StoreSQLite)
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("TRG_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
