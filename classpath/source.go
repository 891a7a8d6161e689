package classpath

import (
	"context"
	"os"
	"strings"
)

// EnvSource contributes the entries of an OS-style classpath environment
// variable (default "CLASSPATH"), split on the platform path-list
// separator. This is the default source: it reads the process's classpath
// environment variable.
type EnvSource struct {
	VarName string
}

func (s EnvSource) Contribute(_ context.Context, _ []string) ([]string, error) {
	name := s.VarName
	if name == "" {
		name = "CLASSPATH"
	}
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	return strings.Split(val, string(os.PathListSeparator)), nil
}

// OverrideSource replaces the environment-derived classpath entirely with a
// fixed value. Used alone -- never combined
// with EnvSource -- by callers that configured an override.
type OverrideSource struct {
	Value string
}

func (s OverrideSource) Contribute(_ context.Context, _ []string) ([]string, error) {
	if s.Value == "" {
		return nil, nil
	}
	return strings.Split(s.Value, string(os.PathListSeparator)), nil
}

// LiteralSource contributes a fixed, caller-supplied list of entries
// verbatim. Useful for tests and for explicit overrides expressed as a
// slice rather than a single delimited string.
type LiteralSource []string

func (s LiteralSource) Contribute(_ context.Context, _ []string) ([]string, error) {
	return append([]string(nil), s...), nil
}
