package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"tecex/internal"
)

type Config struct {
	DBPath    string
	OutputDir string

	TecdocBaseURL  string
	TecdocAPIKey   string
	TecdocProvider int
	Country        string
	Language       string

	RateLimitRPS int
	TimeoutMs    int

	VehicleTypes []string
	Articles     []internal.ArticleRef
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "tecex.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		TecdocBaseURL:  getEnv("TECDOC_BASE_URL", "https://webservice.tecalliance.services/pegasus-3-0/services/TecdocToCatDLB.jsonEndpoint"),
		TecdocAPIKey:   getEnv("TECDOC_API_KEY", ""),
		TecdocProvider: getEnvInt("TECDOC_PROVIDER", 25183),
		Country:        getEnv("TECDOC_COUNTRY", "de"),
		Language:       getEnv("TECDOC_LANG", "de"),

		RateLimitRPS: getEnvInt("TECDOC_RATE_LIMIT_RPS", 5),
		TimeoutMs:    getEnvInt("TECDOC_TIMEOUT_MS", 30000),

		VehicleTypes: splitList(getEnv("TECDOC_VEHICLE_TYPES", "P,O,V,C,M,A")),
	}

	articles, err := parseArticles(getEnv("TECDOC_ARTICLES", "355:1.31809,355:4.61919,355:5.15025,205:38953,80:860168N"))
	if err != nil {
		return Config{}, err
	}
	cfg.Articles = articles

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// parseArticles reads a "supplierId:articleNumber" comma list.
func parseArticles(raw string) ([]internal.ArticleRef, error) {
	out := make([]internal.ArticleRef, 0)
	for _, part := range splitList(raw) {
		idx := strings.Index(part, ":")
		if idx <= 0 || idx == len(part)-1 {
			return nil, fmt.Errorf("invalid article ref %q, want supplierId:articleNumber", part)
		}
		supplier, err := strconv.Atoi(part[:idx])
		if err != nil {
			return nil, fmt.Errorf("invalid supplier id in %q", part)
		}
		out = append(out, internal.ArticleRef{SupplierID: supplier, Number: part[idx+1:]})
	}
	return out, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
