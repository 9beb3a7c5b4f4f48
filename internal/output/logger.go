package output

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleLogger writes progress to a console stream (stderr in the CLI).
//
// In GitHub Actions mode warnings become ::warning:: workflow commands and
// SetOutput appends to the step output file. Otherwise outputs are kept in
// memory and can be read back with Outputs.
type ConsoleLogger struct {
	mu         sync.Mutex
	w          io.Writer
	verbose    bool
	actions    bool
	outputFile string
	outputs    map[string]string

	warn  *color.Color
	debug *color.Color
}

type LoggerOption func(*ConsoleLogger)

// WithActions enables GitHub Actions workflow commands. outputFile is the
// value of GITHUB_OUTPUT and may be empty.
func WithActions(enabled bool, outputFile string) LoggerOption {
	return func(l *ConsoleLogger) {
		l.actions = enabled
		l.outputFile = outputFile
	}
}

func NewConsoleLogger(w io.Writer, verbose bool, opts ...LoggerOption) *ConsoleLogger {
	if w == nil {
		w = os.Stderr
	}
	l := &ConsoleLogger{
		w:       w,
		verbose: verbose,
		outputs: make(map[string]string),
		warn:    color.New(color.FgYellow),
		debug:   color.New(color.Faint),
	}
	for _, apply := range opts {
		if apply != nil {
			apply(l)
		}
	}
	return l
}

func (l *ConsoleLogger) Infof(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, format+"\n", args...)
}

func (l *ConsoleLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if l.actions {
		_, _ = fmt.Fprintf(l.w, "::warning::%s\n", escapeData(msg))
		return
	}
	_, _ = l.warn.Fprintf(l.w, "Warning: %s\n", msg)
}

func (l *ConsoleLogger) Debugf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.actions {
		_, _ = fmt.Fprintf(l.w, "::debug::%s\n", escapeData(msg))
		return
	}
	_, _ = l.debug.Fprintf(l.w, "[verbose] %s\n", msg)
}

func (l *ConsoleLogger) SetOutput(name, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.outputs[name] = value
	if !l.actions || l.outputFile == "" {
		return nil
	}

	delim, err := outputDelimiter(value)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(l.outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open step output file: %w", err)
	}
	_, werr := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delim, value, delim)
	if cerr := f.Close(); cerr != nil && werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("write step output %s: %w", name, werr)
	}
	return nil
}

// Outputs returns a copy of every value passed to SetOutput.
func (l *ConsoleLogger) Outputs() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.outputs))
	for k, v := range l.outputs {
		out[k] = v
	}
	return out
}

func outputDelimiter(value string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate output delimiter: %w", err)
	}
	delim := "ghadelimiter_" + hex.EncodeToString(buf)
	if strings.Contains(value, delim) {
		return "", fmt.Errorf("output value contains delimiter %s", delim)
	}
	return delim, nil
}

// escapeData escapes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
