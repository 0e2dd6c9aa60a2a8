// Package functions provides rules for function calls.
//
// Rules in this package:
//   - CodingStandard.Functions.FunctionCallSignature: spacing and layout of call arguments
package functions
