// Package classes provides rules for class, interface and trait declarations
// and for object instantiation.
//
// Rules in this package:
//   - CodingStandard.Classes.ClassCreateInstance: parentheses on new
//   - CodingStandard.Classes.ClassDeclaration: brace placement around bodies
//   - CodingStandard.Classes.ClassNamespace: declarations live in a namespace
//   - CodingStandard.Classes.PropertyDeclaration: one declared property per statement
package classes
