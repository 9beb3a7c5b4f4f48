package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(buf.String(), "relnotes ") || !strings.Contains(buf.String(), "repository: buildpacks/lifecycle") {
		t.Fatalf("unexpected version output %q", buf.String())
	}
}

func TestVersionCmd_RegisteredOnRoot(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"version"})
	if err != nil || cmd != versionCmd {
		t.Fatalf("expected version subcommand on root, got %v (err=%v)", cmd, err)
	}
}
