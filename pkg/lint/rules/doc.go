// Package rules bundles the CodingStandard rule set.
//
// Rules are organized by the group of their ID:
//   - arrays: array declaration layout
//   - classes: declarations and instantiation
//   - codeanalysis: suspicious parent calls
//   - commenting: inline, doc block and function comments
//   - controlstructures: signatures and conditions of if, while, for and friends
//   - formatting: operator spacing and blank lines
//   - functions: function call signatures
//   - namingconventions: class, method and variable names
//   - php: language constructs
//   - stringrules: string concatenation
//   - whitespace: comma and control structure spacing
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/sniff/pkg/lint/rules"
//
// Individual groups can also be imported:
//
//	import _ "github.com/leapstack-labs/sniff/pkg/lint/rules/whitespace"
package rules
