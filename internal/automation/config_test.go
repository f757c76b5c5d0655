package automation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AUTOMATION_CONFIG", "")
	t.Setenv("AUTOMATION_PROPERTIES", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Schedule.StatementsDay != 2 || cfg.Schedule.StatementsAt != "06:00" {
		t.Fatalf("unexpected statement schedule: %+v", cfg.Schedule)
	}
	if cfg.Schedule.DigestWeekday != "Monday" || cfg.Schedule.DigestAt != "07:00" {
		t.Fatalf("unexpected digest schedule: %+v", cfg.Schedule)
	}
	if cfg.StorageRoot == "" {
		t.Fatal("expected a default storage root")
	}
	if len(cfg.Properties) != 0 {
		t.Fatalf("expected no default properties, got %v", cfg.Properties)
	}
}

func TestLoadConfig_EnvPropertiesCSV(t *testing.T) {
	t.Setenv("AUTOMATION_CONFIG", "")
	t.Setenv("AUTOMATION_PROPERTIES", "prop-1, prop-2 ,,prop-3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"prop-1", "prop-2", "prop-3"}
	if len(cfg.Properties) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Properties)
	}
	for i := range want {
		if cfg.Properties[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cfg.Properties)
		}
	}
}

func TestLoadConfig_YamlOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "automation.yaml")
	yaml := `
schedule:
  statements_day: 5
  statements_at: "04:30"
properties:
  - prop-9
storage_root: /tmp/reports
mail:
  addr: smtp.example.com:587
  from: reports@example.com
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AUTOMATION_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Schedule.StatementsDay != 5 || cfg.Schedule.StatementsAt != "04:30" {
		t.Fatalf("yaml schedule not applied: %+v", cfg.Schedule)
	}
	if len(cfg.Properties) != 1 || cfg.Properties[0] != "prop-9" {
		t.Fatalf("yaml properties not applied: %v", cfg.Properties)
	}
	if cfg.Mail.Addr != "smtp.example.com:587" {
		t.Fatalf("yaml mail not applied: %+v", cfg.Mail)
	}
}

func TestLoadConfig_RejectsBadStatementsDay(t *testing.T) {
	t.Setenv("AUTOMATION_CONFIG", "")
	t.Setenv("AUTOMATION_STATEMENTS_DAY", "31")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for statements_day outside 1..28")
	}
}
