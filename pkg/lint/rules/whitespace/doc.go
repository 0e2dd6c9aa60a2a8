// Package whitespace provides rules for spacing around punctuation and
// control structures.
//
// Rules in this package:
//   - CodingStandard.WhiteSpace.CommaSpacing: no space before a comma, one after
//   - CodingStandard.WhiteSpace.ControlStructureSpacing: padding inside conditions and blank lines around blocks
package whitespace
