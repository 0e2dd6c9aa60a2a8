package lint

import (
	"fmt"

	"github.com/leapstack-labs/sniff/pkg/source"
)

// Pass is the context of one rule invocation: the file, the token that
// triggered the rule and the rule's options. Rules report through it.
type Pass struct {
	File    *source.File
	Ptr     int
	Options map[string]any

	rule   *activeRule
	report func(Diagnostic)
	skipTo int
}

// RuleID returns the ID diagnostics of this pass are reported under.
func (p *Pass) RuleID() string {
	return p.rule.def.ID
}

// Error reports a non-fixable error at ptr.
func (p *Pass) Error(ptr int, code, format string, args ...any) {
	p.add(ptr, code, SeverityError, nil, format, args)
}

// Warning reports a non-fixable warning at ptr.
func (p *Pass) Warning(ptr int, code, format string, args ...any) {
	p.add(ptr, code, SeverityWarning, nil, format, args)
}

// FixableError reports an error at ptr and returns the builder for its
// changeset. The builder is nil when the code is disabled; its methods
// accept a nil receiver.
func (p *Pass) FixableError(ptr int, code, format string, args ...any) *FixBuilder {
	return p.addFixable(ptr, code, SeverityError, format, args)
}

// FixableWarning reports a warning at ptr and returns the builder for its changeset.
func (p *Pass) FixableWarning(ptr int, code, format string, args ...any) *FixBuilder {
	return p.addFixable(ptr, code, SeverityWarning, format, args)
}

// Parent runs the check of the rule this one extends, at the same token.
// Its diagnostics are reported under this rule's ID.
func (p *Pass) Parent() {
	if p.rule.parent == nil {
		return
	}
	p.rule.parent(p)
}

// Skip stops dispatching this rule until the token at index next. Rules that
// consume a whole construct call it to avoid reporting its inner tokens again.
func (p *Pass) Skip(next int) {
	if next > p.skipTo {
		p.skipTo = next
	}
}

func (p *Pass) addFixable(ptr int, code string, sev Severity, format string, args []any) *FixBuilder {
	fix := &Fix{}
	if !p.add(ptr, code, sev, fix, format, args) {
		return nil
	}
	return &FixBuilder{fix: fix, eol: p.File.EOL()}
}

func (p *Pass) add(ptr int, code string, sev Severity, fix *Fix, format string, args []any) bool {
	id := p.rule.def.ID
	if p.rule.config.IsCodeDisabled(id, code) {
		return false
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if fix != nil {
		fix.Description = msg
	}

	p.report(Diagnostic{
		RuleID:           id,
		Code:             code,
		Source:           id + "." + code,
		Severity:         p.rule.config.GetSeverity(id, sev),
		Message:          msg,
		Pos:              p.File.Token(ptr).Pos(),
		Ptr:              ptr,
		Fix:              fix,
		DocumentationURL: BuildDocURL(id),
	})
	return true
}

// FixBuilder collects the edits of one changeset. All methods return the
// builder for chaining and are no-ops on a nil builder.
type FixBuilder struct {
	fix *Fix
	eol string
}

func (b *FixBuilder) add(op Op, index int, text string) *FixBuilder {
	if b == nil {
		return nil
	}
	b.fix.Edits = append(b.fix.Edits, Edit{Op: op, Index: index, Text: text})
	return b
}

// Replace sets the content of the token at index.
func (b *FixBuilder) Replace(index int, text string) *FixBuilder {
	return b.add(Replace, index, text)
}

// Delete clears the content of the token at index.
func (b *FixBuilder) Delete(index int) *FixBuilder {
	return b.add(Delete, index, "")
}

// InsertBefore prepends text to the token at index.
func (b *FixBuilder) InsertBefore(index int, text string) *FixBuilder {
	return b.add(InsertBefore, index, text)
}

// InsertAfter appends text to the token at index.
func (b *FixBuilder) InsertAfter(index int, text string) *FixBuilder {
	return b.add(InsertAfter, index, text)
}

// Newline appends the file's line terminator to the token at index.
func (b *FixBuilder) Newline(index int) *FixBuilder {
	if b == nil {
		return nil
	}
	return b.add(InsertAfter, index, b.eol)
}

// NewlineBefore prepends the file's line terminator to the token at index.
func (b *FixBuilder) NewlineBefore(index int) *FixBuilder {
	if b == nil {
		return nil
	}
	return b.add(InsertBefore, index, b.eol)
}

// EOL returns the line terminator of the file being fixed.
func (b *FixBuilder) EOL() string {
	if b == nil {
		return "\n"
	}
	return b.eol
}
