package cli

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func withoutEnv(keys ...string) []string {
	out := make([]string, 0, len(os.Environ()))
	for _, e := range os.Environ() {
		drop := false
		for _, key := range keys {
			if strings.HasPrefix(e, key+"=") {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, e)
		}
	}
	return out
}

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	// internal/cli -> repo root
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func goExe() string {
	if runtime.GOOS == "windows" {
		return "go.exe"
	}
	return "go"
}

func buildRelnotesBinary(t *testing.T) string {
	t.Helper()

	outPath := filepath.Join(t.TempDir(), "relnotes-test")
	if runtime.GOOS == "windows" {
		outPath += ".exe"
	}

	cmd := exec.Command(goExe(), "build", "-o", outPath, "./cmd/relnotes")
	cmd.Dir = repoRoot(t)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build relnotes binary: %v; output=%s", err, string(out))
	}

	return outPath
}

func expectExitCode(t *testing.T, err error, out []byte, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected non-zero exit; output=%s", string(out))
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v; output=%s", err, err, string(out))
	}
	if code := exitErr.ProcessState.ExitCode(); code != want {
		t.Fatalf("expected exit code %d, got %d; output=%s", want, code, string(out))
	}
}

func TestBinary_ExitCode3_WhenTokenMissing(t *testing.T) {
	binary := buildRelnotesBinary(t)
	cmd := exec.Command(binary)
	cmd.Env = append(withoutEnv(EnvToken, EnvVersion), EnvVersion+"=0.20.1")

	out, err := cmd.CombinedOutput()
	expectExitCode(t, err, out, 3)
	if !strings.Contains(string(out), EnvToken) {
		t.Fatalf("expected message naming %s; output=%s", EnvToken, string(out))
	}
}

func TestBinary_ExitCode3_WhenVersionMissing(t *testing.T) {
	binary := buildRelnotesBinary(t)
	cmd := exec.Command(binary)
	cmd.Env = append(withoutEnv(EnvToken, EnvVersion), EnvToken+"=test-token")

	out, err := cmd.CombinedOutput()
	expectExitCode(t, err, out, 3)
	if !strings.Contains(string(out), EnvVersion) {
		t.Fatalf("expected message naming %s; output=%s", EnvVersion, string(out))
	}
}

func TestBinary_Help_DocumentsEnvironmentAndExitCodes(t *testing.T) {
	binary := buildRelnotesBinary(t)
	cmd := exec.Command(binary, "--help")

	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("expected zero exit; err=%v; output=%s", err, string(out))
	}

	for _, r := range []string{"Environment:", EnvToken, EnvVersion, "Exit codes:"} {
		if !strings.Contains(string(out), r) {
			t.Fatalf("expected --help to contain %q; output=%s", r, string(out))
		}
	}
}
