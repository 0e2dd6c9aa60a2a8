// Package core defines the shared vocabulary of sniff.
//
// This package contains:
//   - Severity levels for diagnostics
//   - The RuleInfo DTO used by tooling and documentation
//   - Configuration types shared by the CLI, the LSP and the rules engine
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
