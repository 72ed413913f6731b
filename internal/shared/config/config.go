package config

import (
	"log"
	"os"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	PDFBucket       string
	S3Prefix        string
	AppSecretName   string
	DatabaseURL     string
	ExtractProvider string
	ExtractModel    string
	ExtractAPIKey   string
	QueueURL        string
	Env             string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" && os.Getenv("APP_SECRET_NAME") == "" {
		log.Printf("DATABASE_URL or APP_SECRET_NAME is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		PDFBucket:       getEnv("PDF_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		AppSecretName:   getEnv("APP_SECRET_NAME", ""),
		DatabaseURL:     dbURL,
		ExtractProvider: getEnv("EXTRACT_PROVIDER", "llamacloud"),
		ExtractModel:    getEnv("EXTRACT_MODEL", "openai-gpt-5"),
		ExtractAPIKey:   getEnv("LLAMA_PARSE_API_KEY", ""),
		QueueURL:        getEnv("AGREEMENTS_SQS_QUEUE_URL", ""),
		Env:             env,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
