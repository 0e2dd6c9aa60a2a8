package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/sniff/pkg/core"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("%w: output %q (want one of %v)", ErrInvalid, c.OutputFormat, OutputFormats)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must not be negative", ErrInvalid)
	}
	if c.TabWidth < 0 {
		return fmt.Errorf("%w: tab_width must not be negative", ErrInvalid)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: extensions must not be empty", ErrInvalid)
	}
	for id, s := range c.Lint.Severity {
		if _, ok := core.ParseSeverity(s); !ok {
			return fmt.Errorf("%w: severity of %s: %q", ErrInvalid, id, s)
		}
	}
	return nil
}
