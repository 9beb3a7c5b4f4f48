package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"relnotes/internal/releasenotes"
)

func sampleNotes() *releasenotes.Notes {
	return &releasenotes.Notes{
		Repository: "buildpacks/lifecycle",
		Version:    "0.20.1",
		Sections: []releasenotes.Section{{
			Title:   "Features",
			Entries: []releasenotes.Entry{{Number: 12, Title: "Add platform API 0.13", Author: "alice", PullRequest: true}},
		}},
		Contributors: []string{"alice"},
		Markdown:     "## lifecycle v0.20.1\n\n### Features\n\n* Add platform API 0.13 (#12 by @alice)\n",
	}
}

func TestWriteNotes_Markdown(t *testing.T) {
	var buf bytes.Buffer
	notes := sampleNotes()
	if err := WriteNotes(&buf, "markdown", notes); err != nil {
		t.Fatalf("WriteNotes error: %v", err)
	}
	if buf.String() != notes.Markdown {
		t.Fatalf("got %q, want %q", buf.String(), notes.Markdown)
	}
}

func TestWriteNotes_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNotes(&buf, "json", sampleNotes()); err != nil {
		t.Fatalf("WriteNotes error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got["version"] != "0.20.1" {
		t.Fatalf("unexpected version field: %v", got["version"])
	}
	sections, ok := got["sections"].([]any)
	if !ok || len(sections) != 1 {
		t.Fatalf("unexpected sections: %v", got["sections"])
	}
}

func TestWriteNotes_FlushesBufferedWriter(t *testing.T) {
	var buf bytes.Buffer
	notes := sampleNotes()

	if err := WriteNotes(bufio.NewWriter(&buf), "markdown", notes); err != nil {
		t.Fatalf("WriteNotes error: %v", err)
	}
	if buf.String() != notes.Markdown {
		t.Fatalf("buffered notes not flushed: got %q", buf.String())
	}
}

func TestWriteNotes_UnsupportedFormat(t *testing.T) {
	err := WriteNotes(&bytes.Buffer{}, "html", sampleNotes())
	if err == nil || !strings.Contains(err.Error(), "unsupported notes format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestWriteNotesFile_InfersFormatAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "notes", "release.json")

	if err := WriteNotesFile(path, "", sampleNotes()); err != nil {
		t.Fatalf("WriteNotesFile error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("expected JSON file, got:\n%s", raw)
	}
}

func TestWriteNotesFile_UnknownExtension_Errors_WhenFormatOmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")

	err := WriteNotesFile(path, "", sampleNotes())
	if err == nil || !strings.Contains(err.Error(), "cannot infer output format") {
		t.Fatalf("expected inference error, got %v", err)
	}
}

func TestWriteNotesFile_ExplicitFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	notes := sampleNotes()

	if err := WriteNotesFile(path, "markdown", notes); err != nil {
		t.Fatalf("WriteNotesFile error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(raw) != notes.Markdown {
		t.Fatalf("got %q, want %q", raw, notes.Markdown)
	}
}
