package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=accounts_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultChannel = "API"
const defaultKafkaTopic = "ledger.transaction.posted"

// Config carries every runtime parameter the ledger core needs. It is built
// once in main and handed to constructors; nothing below reads the
// environment after Load returns.
type Config struct {
	DatabaseDSN   string
	MigrationsDir string
	Channel       string
	LogLevel      string

	EventsEnabled bool
	KafkaBrokers  []string
	KafkaTopic    string
}

func Load() (Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	channel := strings.TrimSpace(os.Getenv("LEDGER_CHANNEL"))
	if channel == "" {
		channel = defaultChannel
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	brokers := splitAndTrim(os.Getenv("KAFKA_BROKERS"))

	topic := strings.TrimSpace(os.Getenv("KAFKA_TOPIC"))
	if topic == "" {
		topic = defaultKafkaTopic
	}

	return Config{
		DatabaseDSN:   normalizeConnectionString(conn),
		MigrationsDir: filepath.Join("src", "migrations"),
		Channel:       channel,
		LogLevel:      logLevel,
		EventsEnabled: len(brokers) > 0,
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
	}, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeConnectionString accepts ADO-style "Key=Value;..." strings and
// rewrites them into libpq keyword form. Strings already in libpq form pass
// through unchanged.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
