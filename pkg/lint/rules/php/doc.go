// Package php provides rules for PHP language constructs.
//
// Rules in this package:
//   - Generic.PHP.NoSilencedErrors: base rule warning on the @ operator
//   - CodingStandard.PHP.NoSilencedErrors: the base rule, allowing silenced deprecation notices
package php
