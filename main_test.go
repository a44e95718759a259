package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"

	"base16builder/model"
	"base16builder/plist"
)

func TestExitCode(t *testing.T) {
	_, missingPlist := plist.Load(filepath.Join(t.TempDir(), "missing.terminal"))
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"usage", fmt.Errorf("%w: profile file argument is missing", errUsage), exitUsage},
		{"unreadable", fmt.Errorf("%w: open x", model.ErrSourceRead), exitNoInput},
		{"missing plist", missingPlist, exitNoInput},
		{"template", fmt.Errorf("%w: open x", model.ErrTemplateRead), exitNoInput},
		{"unparsable", fmt.Errorf("Mine.terminal: %w", model.ErrProfileParse), exitDataErr},
		{"environment", fmt.Errorf("%w: plutil not found", model.ErrEnvironmentUnsupported), exitUnavailable},
		{"invalid profile", fmt.Errorf("%w: patched profile does not parse", model.ErrProfileInvariant), exitSoftware},
		{"unit", &model.UnitError{Template: "shell/default", Err: model.ErrDocumentParse}, exitDataErr},
		{"other", errors.New("boom"), exitFailure},
		{"aggregated", multierr.Combine(errors.New("boom"), fmt.Errorf("%w: x", model.ErrSourceRead)), exitNoInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
