package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestVersionCommandPrintsVersionInfo(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	versionCmd.Run(versionCmd, nil)

	w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	buf.ReadFrom(r)

	out := buf.String()
	if !strings.Contains(out, "plc version "+Version) {
		t.Fatalf("expected version string in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Git Commit: "+GitCommit) {
		t.Fatalf("expected git commit in output, got:\n%s", out)
	}
}
