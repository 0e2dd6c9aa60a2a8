// Package namingconventions provides rules for the names of classes,
// interfaces, traits, methods and variables.
//
// Rules in this package:
//   - CodingStandard.NamingConventions.ValidClassName: Abstract prefix matches the modifier
//   - CodingStandard.NamingConventions.ValidFunctionName: method visibility prefixes and camel caps
//   - CodingStandard.NamingConventions.ValidInterfaceName: interfaces start with I
//   - CodingStandard.NamingConventions.ValidTraitName: traits start with T
//   - CodingStandard.NamingConventions.ValidVariableName: snake caps locals, camel caps members
//
// Projects with legacy names keep them through rule options rather than code:
// ValidFunctionName takes exclusions and param_exclusions, ValidVariableName
// takes member_exceptions.
package namingconventions
