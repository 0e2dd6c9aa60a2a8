// Package controlstructures provides rules for if, loop, switch and try
// statements.
//
// Rules in this package:
//   - CodingStandard.ControlStructures.AssignmentInCondition: no = in if conditions
//   - CodingStandard.ControlStructures.ControlSignature: spacing of keywords and braces
//   - CodingStandard.ControlStructures.ElseIf: elseif instead of else if
//   - CodingStandard.ControlStructures.MultiLineCondition: layout of wrapped conditions
package controlstructures
