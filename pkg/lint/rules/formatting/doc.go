// Package formatting provides rules for spacing around operators and blank
// lines between statements.
//
// Rules in this package:
//   - CodingStandard.Formatting.BlankLineBeforeReturn: one blank line before return
//   - CodingStandard.Formatting.ItemAssignment: spaces around =>
//   - CodingStandard.Formatting.NamespaceDeclaration: blank lines after namespace
//   - CodingStandard.Formatting.NoSpaceAfterBooleanNot: no space after !
//   - CodingStandard.Formatting.SpaceOperator: one space before assignments
//   - CodingStandard.Formatting.SpaceUnaryOperator: no space between ++/-- and operand
package formatting
