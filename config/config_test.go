package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:     ServerConfig{Port: 8080},
		Auth:       AuthConfig{JWTSecret: "0123456789abcdef"},
		Clock:      ClockConfig{TimeZone: "Asia/Colombo"},
		Attendance: AttendanceConfig{MorningCutoff: "08:30", EveningCutoff: "17:30"},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown zone", func(c *Config) { c.Clock.TimeZone = "Mars/Olympus" }},
		{"bad cutoff", func(c *Config) { c.Attendance.MorningCutoff = "8.30" }},
		{"inverted window", func(c *Config) { c.Attendance.MorningCutoff = "18:00" }},
		{"storage without endpoint", func(c *Config) { c.Storage.Enabled = true; c.Storage.Bucket = "b" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAttendanceWindow(t *testing.T) {
	cfg := validConfig()
	w, err := cfg.Attendance.Window()
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if w.StartHour != 8 || w.StartMinute != 30 || w.EndHour != 17 || w.EndMinute != 30 {
		t.Errorf("unexpected window %+v", w)
	}
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	// run in an empty directory so no config.yaml or .env is picked up
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("EMS_AUTH_JWT_SECRET", "test-secret-0123456789")
	t.Setenv("EMS_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port from env, got %d", cfg.Server.Port)
	}
	if cfg.Clock.TimeZone != "Asia/Colombo" {
		t.Errorf("expected default zone, got %s", cfg.Clock.TimeZone)
	}
	if cfg.Auth.AccessTokenTTL != 12*time.Hour {
		t.Errorf("expected 12h token ttl, got %s", cfg.Auth.AccessTokenTTL)
	}
	if !cfg.Attendance.RequireLocation {
		t.Error("expected location to be required by default")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("auth:\n  jwt_secret: file-secret-0123456789\nattendance:\n  morning_cutoff: \"09:00\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Attendance.MorningCutoff != "09:00" {
		t.Errorf("expected cutoff from file, got %s", cfg.Attendance.MorningCutoff)
	}
	if cfg.Attendance.EveningCutoff != "17:30" {
		t.Errorf("expected default evening cutoff, got %s", cfg.Attendance.EveningCutoff)
	}
}
