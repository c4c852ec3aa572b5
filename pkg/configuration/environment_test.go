package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "READCIRCLE_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "pkg", "entitlements")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("READCIRCLE_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("READCIRCLE_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestEntitlementsOptions_Validate(t *testing.T) {
	valid := EntitlementsOptions{
		CacheTTL:     30 * time.Minute,
		MemoryTTL:    5 * time.Minute,
		MemorySize:   100,
		GuardTimeout: 10 * time.Second,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid options, got %v", err)
	}

	memoryExceeds := valid
	memoryExceeds.MemoryTTL = time.Hour
	if err := memoryExceeds.Validate(); err == nil {
		t.Fatal("expected error when MemoryTTL exceeds CacheTTL")
	}

	zeroSize := valid
	zeroSize.MemorySize = 0
	if err := zeroSize.Validate(); err == nil {
		t.Fatal("expected error for non-positive MemorySize")
	}

	zeroGuard := valid
	zeroGuard.GuardTimeout = 0
	if err := zeroGuard.Validate(); err == nil {
		t.Fatal("expected error for non-positive GuardTimeout")
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
