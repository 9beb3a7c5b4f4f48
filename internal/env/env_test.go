package env

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func TestRequire_ReturnsValue(t *testing.T) {
	exited := -1
	a := Accessor{
		Lookup: mapLookup(map[string]string{"LIFECYCLE_VERSION": "0.20.1"}),
		Stderr: &bytes.Buffer{},
		Exit:   func(code int) { exited = code },
	}

	if got := a.Require("LIFECYCLE_VERSION"); got != "0.20.1" {
		t.Fatalf("want 0.20.1, got %q", got)
	}
	if exited != -1 {
		t.Fatalf("expected no exit, got code %d", exited)
	}
}

func TestRequire_MissingOrEmptyExits(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unset", env: map[string]string{}},
		{name: "empty", env: map[string]string{"GITHUB_TOKEN": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			exited := -1
			a := Accessor{
				Lookup: mapLookup(tt.env),
				Stderr: &stderr,
				Exit:   func(code int) { exited = code },
			}

			if got := a.Require("GITHUB_TOKEN"); got != "" {
				t.Fatalf("expected empty value, got %q", got)
			}
			if exited != ExitMissingConfig {
				t.Fatalf("expected exit code %d, got %d", ExitMissingConfig, exited)
			}
			if !strings.Contains(stderr.String(), "GITHUB_TOKEN") {
				t.Fatalf("expected diagnostic to name the variable, got %q", stderr.String())
			}
		})
	}
}

func TestGet_WhitespaceIsAValue(t *testing.T) {
	a := Accessor{Lookup: mapLookup(map[string]string{"GITHUB_TOKEN": " "})}

	got, err := a.Get("GITHUB_TOKEN")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != " " {
		t.Fatalf("want the raw value, got %q", got)
	}
}

func TestGet_ReturnsMissingError(t *testing.T) {
	a := Accessor{Lookup: mapLookup(nil)}

	_, err := a.Get("LIFECYCLE_VERSION")
	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingError, got %T: %v", err, err)
	}
	if missing.Name != "LIFECYCLE_VERSION" {
		t.Fatalf("unexpected name %q", missing.Name)
	}
}

func TestGet_ZeroValueUsesProcessEnv(t *testing.T) {
	t.Setenv("RELNOTES_ENV_TEST", "value")

	var a Accessor
	got, err := a.Get("RELNOTES_ENV_TEST")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != "value" {
		t.Fatalf("want value, got %q", got)
	}
}
