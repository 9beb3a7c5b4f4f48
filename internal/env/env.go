package env

import (
	"fmt"
	"io"
	"os"
)

// ExitMissingConfig is the process exit status used when a required
// environment variable is absent.
const ExitMissingConfig = 3

// MissingError reports a required environment variable that is unset or empty.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Name)
}

// Accessor reads required configuration from the process environment.
//
// The zero value is usable and behaves like Default(). Tests replace Lookup
// and Exit so a missing variable can be observed without terminating the
// test binary.
type Accessor struct {
	Lookup func(name string) (string, bool)
	Stderr io.Writer
	Exit   func(code int)
}

func Default() Accessor {
	return Accessor{
		Lookup: os.LookupEnv,
		Stderr: os.Stderr,
		Exit:   os.Exit,
	}
}

// Get returns the value of name, or a *MissingError when it is unset or
// empty. Other values, including whitespace, are returned verbatim.
func (a Accessor) Get(name string) (string, error) {
	lookup := a.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(name)
	if !ok || v == "" {
		return "", &MissingError{Name: name}
	}
	return v, nil
}

// Require returns the value of name. When the variable is missing it writes a
// diagnostic naming the variable and terminates with ExitMissingConfig.
//
// If Exit returns (as test doubles do), Require returns the empty string and
// callers must stop.
func (a Accessor) Require(name string) string {
	v, err := a.Get(name)
	if err == nil {
		return v
	}

	w := a.Stderr
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)

	exit := a.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(ExitMissingConfig)
	return ""
}
