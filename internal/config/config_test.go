package config

import (
	"os"
	"testing"
)

func TestConfig_LoadFromFile(t *testing.T) {
	testConfig := `[Identity]
Subnet=0x5A
BroadcastSubnet=0xF0
DDFlags=0x01
BeaconAttempts=3
ActiveClass=1
HoldLimit=8

[Radio]
LinkQualityLimit=10
GuardTime=8
WatchdogPeriod=65535
WatchdogEnabled=1

[ISF]
Backend=file
Path=/etc/dash7/isf

[Database]
Enabled=0
Path=data/dash7.db
CacheSize=256

[Log]
Debug=1
ColorDebug=1
FilePath=.`

	tmpfile, err := os.CreateTemp("", "test_config_*.ini")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(testConfig)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	cfg := New(tmpfile.Name())
	if err := cfg.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GetSubnet() != 0x5A {
		t.Errorf("GetSubnet() = 0x%02X, want 0x5A", cfg.GetSubnet())
	}
	if cfg.GetBroadcastSubnet() != 0xF0 {
		t.Errorf("GetBroadcastSubnet() = 0x%02X, want 0xF0", cfg.GetBroadcastSubnet())
	}
	if cfg.GetBeaconAttempts() != 3 {
		t.Errorf("GetBeaconAttempts() = %d, want 3", cfg.GetBeaconAttempts())
	}
	if cfg.GetActiveClass() != ClassEndpoint {
		t.Errorf("GetActiveClass() = %d, want %d", cfg.GetActiveClass(), ClassEndpoint)
	}
	if cfg.GetHoldLimit() != 8 {
		t.Errorf("GetHoldLimit() = %d, want 8", cfg.GetHoldLimit())
	}
	if cfg.GetLinkQualityLimit() != 10 {
		t.Errorf("GetLinkQualityLimit() = %d, want 10", cfg.GetLinkQualityLimit())
	}
	if cfg.GetISFBackend() != "file" {
		t.Errorf("GetISFBackend() = %q, want %q", cfg.GetISFBackend(), "file")
	}
	if !cfg.GetDebug() {
		t.Error("GetDebug() = false, want true")
	}
}

func TestConfig_LoadFromString(t *testing.T) {
	testConfig := `[Identity]
Subnet=0x11
ActiveClass=4

[Database]
Enabled=1
CacheSize=1000`

	cfg := New("")
	if err := cfg.LoadFromString(testConfig); err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if cfg.GetSubnet() != 0x11 {
		t.Errorf("GetSubnet() = 0x%02X, want 0x11", cfg.GetSubnet())
	}
	if cfg.GetActiveClass() != ClassGateway {
		t.Errorf("GetActiveClass() = %d, want %d", cfg.GetActiveClass(), ClassGateway)
	}
	if !cfg.GetDatabaseEnabled() {
		t.Error("GetDatabaseEnabled() = false, want true")
	}
	if cfg.GetDatabaseCacheSize() != 1000 {
		t.Errorf("GetDatabaseCacheSize() = %d, want 1000", cfg.GetDatabaseCacheSize())
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := New("")

	if cfg.GetActiveClass() != ClassEndpoint {
		t.Errorf("GetActiveClass() default = %d, want %d", cfg.GetActiveClass(), ClassEndpoint)
	}
	if cfg.GetHoldLimit() != 8 {
		t.Errorf("GetHoldLimit() default = %d, want 8", cfg.GetHoldLimit())
	}
	if cfg.GetISFBackend() != "file" {
		t.Errorf("GetISFBackend() default = %q, want %q", cfg.GetISFBackend(), "file")
	}
	if cfg.GetDatabaseEnabled() {
		t.Error("GetDatabaseEnabled() default = true, want false")
	}
	if !cfg.GetWatchdogEnabled() {
		t.Error("GetWatchdogEnabled() default = false, want true")
	}
}

func TestConfig_InvalidFile(t *testing.T) {
	cfg := New("/nonexistent/file.ini")
	if err := cfg.Load(); err == nil {
		t.Error("Load() with nonexistent file should return error")
	}
}

func TestConfig_ActiveClassMasking(t *testing.T) {
	testConfig := `[Identity]
ActiveClass=0xFF`

	cfg := New("")
	if err := cfg.LoadFromString(testConfig); err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if cfg.GetActiveClass() != ClassMask {
		t.Errorf("GetActiveClass() = 0x%02X, want masked 0x%02X", cfg.GetActiveClass(), ClassMask)
	}
}
