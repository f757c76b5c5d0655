package automation

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MailConfig defines the SMTP relay used for report delivery.
type MailConfig struct {
	Addr     string `yaml:"addr"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ScheduleConfig defines when recurring jobs fire (UTC).
type ScheduleConfig struct {
	StatementsDay int    `yaml:"statements_day"`
	StatementsAt  string `yaml:"statements_at"`
	DigestWeekday string `yaml:"digest_weekday"`
	DigestAt      string `yaml:"digest_at"`
}

// Config defines the automation layer configuration. Values load from a
// yaml file pointed to by AUTOMATION_CONFIG with env fallbacks, so cron
// property lists live in configuration rather than code.
type Config struct {
	Schedule    ScheduleConfig `yaml:"schedule"`
	Properties  []string       `yaml:"properties"`
	StorageRoot string         `yaml:"storage_root"`
	Mail        MailConfig     `yaml:"mail"`
}

// LoadConfig loads config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		Schedule: ScheduleConfig{
			StatementsDay: getenvIntDefault("AUTOMATION_STATEMENTS_DAY", 2),
			StatementsAt:  getenvDefault("AUTOMATION_STATEMENTS_AT", "06:00"),
			DigestWeekday: getenvDefault("AUTOMATION_DIGEST_WEEKDAY", "Monday"),
			DigestAt:      getenvDefault("AUTOMATION_DIGEST_AT", "07:00"),
		},
		StorageRoot: getenvDefault("REPORT_STORAGE_ROOT", filepath.FromSlash("var/reports")),
		Mail: MailConfig{
			Addr:     os.Getenv("SMTP_ADDR"),
			From:     getenvDefault("SMTP_FROM", "reports@owner-portal.local"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
	}

	if path := os.Getenv("AUTOMATION_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if len(cfg.Properties) == 0 {
		cfg.Properties = splitCSV(getenvDefault("AUTOMATION_PROPERTIES", ""))
	}
	if cfg.Schedule.StatementsDay < 1 || cfg.Schedule.StatementsDay > 28 {
		return cfg, errors.New("automation: statements_day must be in 1..28")
	}
	if cfg.StorageRoot == "" {
		return cfg, errors.New("automation: storage root required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
