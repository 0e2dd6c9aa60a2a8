// Package stringrules provides rules for string expressions.
//
// Rules in this package:
//   - CodingStandard.Strings.ConcatenationSpacing: spaces around the concat operator
package stringrules
