package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"relnotes/internal/config"
	"relnotes/internal/releasenotes"
)

// WriteNotes writes notes to w.
//
// Formats:
//   - markdown: the rendered changelog entry
//   - json: the full Notes document, indented
func WriteNotes(w io.Writer, format string, notes *releasenotes.Notes) error {
	if w == nil {
		return fmt.Errorf("notes writer must not be nil")
	}
	if notes == nil {
		return fmt.Errorf("notes must not be nil")
	}

	switch format {
	case "markdown":
		if _, err := io.WriteString(w, notes.Markdown); err != nil {
			return err
		}
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(notes); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported notes format: %s", format)
	}
	return flushIfPossible(w)
}

// WriteNotesFile writes notes to path, creating parent directories. An empty
// format is inferred from the file extension.
func WriteNotesFile(path, format string, notes *releasenotes.Notes) (err error) {
	if path == "" {
		return fmt.Errorf("output path required")
	}
	if format == "" {
		format, err = config.InferFormat(path)
		if err != nil {
			return err
		}
	}
	if format != "markdown" && format != "json" {
		return fmt.Errorf("unsupported notes format: %s", format)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return WriteNotes(bufio.NewWriter(f), format, notes)
}

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
