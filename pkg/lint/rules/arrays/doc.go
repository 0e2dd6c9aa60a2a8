// Package arrays provides rules for array() declarations.
//
// Rules in this package:
//   - CodingStandard.Arrays.Array: spacing inside array() and trailing commas
package arrays
