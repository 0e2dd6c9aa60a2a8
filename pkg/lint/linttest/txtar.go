package linttest

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"
)

// Fixture archives hold one case each:
//
//	options:
//	  indent: 2
//	disabled: [NoLastComma]
//	-- test.php --
//	<?php
//	$a = array( );
//	-- expect --
//	2 error
//	-- fixed --
//	<?php
//	$a = array();
//
// The archive comment is YAML holding rule options and disabled codes. The
// "expect" file lists "LINE error|warning [COUNT]" entries; "fixed" is
// optional. Any other file is the input, and its name selects the language.

type header struct {
	Options  map[string]any `yaml:"options"`
	Disabled []string       `yaml:"disabled"`
}

// Load parses a fixture archive into a Case named after the file.
func Load(path string) (Case, error) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		return Case{}, fmt.Errorf("read fixture: %w", err)
	}

	tc := Case{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

	var h header
	if err := yaml.Unmarshal(ar.Comment, &h); err != nil {
		return Case{}, fmt.Errorf("%s: header: %w", path, err)
	}
	tc.Options = h.Options
	tc.Disabled = h.Disabled

	var haveInput, haveExpect bool
	for _, file := range ar.Files {
		switch file.Name {
		case "expect":
			haveExpect = true
			tc.Errors, tc.Warnings, err = parseExpect(string(file.Data))
			if err != nil {
				return Case{}, fmt.Errorf("%s: %w", path, err)
			}
		case "fixed":
			tc.Fixed = string(file.Data)
		default:
			if haveInput {
				return Case{}, fmt.Errorf("%s: more than one input file", path)
			}
			haveInput = true
			tc.Path = file.Name
			tc.Source = string(file.Data)
		}
	}
	if !haveInput || !haveExpect {
		return Case{}, fmt.Errorf("%s: fixture needs an input file and an expect section", path)
	}
	return tc, nil
}

func parseExpect(data string) (errors, warnings map[int]int, err error) {
	errors = make(map[int]int)
	warnings = make(map[int]int)

	sc := bufio.NewScanner(strings.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, nil, fmt.Errorf("expect line %d: want LINE error|warning [COUNT]", n)
		}
		at, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("expect line %d: %w", n, err)
		}
		count := 1
		if len(fields) == 3 {
			if count, err = strconv.Atoi(fields[2]); err != nil {
				return nil, nil, fmt.Errorf("expect line %d: %w", n, err)
			}
		}
		switch fields[1] {
		case "error":
			errors[at] += count
		case "warning":
			warnings[at] += count
		default:
			return nil, nil, fmt.Errorf("expect line %d: unknown severity %q", n, fields[1])
		}
	}
	return errors, warnings, sc.Err()
}

// RunDir runs every *.txtar fixture in dir against ruleID.
func RunDir(t *testing.T, ruleID, dir string) {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no fixtures in %s", dir)

	for _, path := range paths {
		tc, err := Load(path)
		require.NoError(t, err)
		t.Run(tc.Name, func(t *testing.T) {
			RunCase(t, ruleID, tc)
		})
	}
}
