package dotenv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_MissingFileIsNoop(t *testing.T) {
	t.Parallel()
	if err := LoadFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadFile missing file error: %v", err)
	}
}

func TestLoadFile_LoadsValuesAndPreservesExisting(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	content := "" +
		"# local interview service settings\n" +
		"HRSCREEN_TEST_FROM_FILE=loaded\n" +
		"HRSCREEN_TEST_QUOTED=\"hello world\"\n" +
		"HRSCREEN_TEST_SINGLE='one two'\n" +
		"export HRSCREEN_TEST_EXPORTED=ok\n" +
		"HRSCREEN_TEST_EXISTING=from_file\n" +
		"=no_key\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("HRSCREEN_TEST_EXISTING", "already_set")

	if err := LoadFile(envPath); err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	if got := os.Getenv("HRSCREEN_TEST_FROM_FILE"); got != "loaded" {
		t.Fatalf("FROM_FILE=%q", got)
	}
	if got := os.Getenv("HRSCREEN_TEST_QUOTED"); got != "hello world" {
		t.Fatalf("QUOTED=%q", got)
	}
	if got := os.Getenv("HRSCREEN_TEST_SINGLE"); got != "one two" {
		t.Fatalf("SINGLE=%q", got)
	}
	if got := os.Getenv("HRSCREEN_TEST_EXPORTED"); got != "ok" {
		t.Fatalf("EXPORTED=%q", got)
	}
	if got := os.Getenv("HRSCREEN_TEST_EXISTING"); got != "already_set" {
		t.Fatalf("EXISTING=%q, want existing value preserved", got)
	}
}
