package lsp

import (
	"strings"

	"github.com/leapstack-labs/sniff/internal/engine"
	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
)

// diagnosticSource names the server in published diagnostics.
const diagnosticSource = "sniff"

// tokenizerCode is the diagnostic code for documents that cannot be
// tokenized, such as an unterminated comment.
const tokenizerCode = "Internal.Tokenizer"

// analysis is one check of a document snapshot.
type analysis struct {
	doc   *Document
	file  *source.File
	diags []lint.Diagnostic
}

// analyze checks the open document at uri. It returns nil when the document
// is not open, no engine is loaded, or the file is not one sniff checks.
// A tokenizer failure yields an analysis without a file.
func (s *Server) analyze(uri string) (*analysis, *engine.Engine, error) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return nil, nil, nil
	}
	eng := s.currentEngine()
	if eng == nil {
		return nil, nil, nil
	}
	path := URIToPath(uri)
	if !s.checks(eng, path) {
		return nil, nil, nil
	}

	f, err := eng.File(path, doc.Content)
	if err != nil {
		return &analysis{doc: doc}, eng, err
	}
	return &analysis{doc: doc, file: f, diags: eng.Analyzer().Analyze(f)}, eng, nil
}

// publishDiagnostics checks the document and publishes the violations.
func (s *Server) publishDiagnostics(uri string) {
	a, _, err := s.analyze(uri)

	diagnostics := []Diagnostic{}
	var version *int
	switch {
	case a == nil:
	case err != nil:
		version = &a.doc.Version
		diagnostics = append(diagnostics, Diagnostic{
			Range:    Range{End: Position{Character: uint32(len(a.doc.GetLine(0)))}}, //nolint:gosec // G115: length is non-negative
			Severity: DiagnosticSeverityError,
			Code:     tokenizerCode,
			Source:   diagnosticSource,
			Message:  err.Error(),
		})
	default:
		version = &a.doc.Version
		for _, d := range a.diags {
			diagnostics = append(diagnostics, toLSPDiagnostic(a.doc, a.file, d))
		}
	}

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: diagnostics,
	})
}

// toLSPDiagnostic converts a lint diagnostic. The range covers the reported
// token up to the end of its first line.
func toLSPDiagnostic(doc *Document, f *source.File, d lint.Diagnostic) Diagnostic {
	diag := Diagnostic{
		Range:    diagnosticRange(doc, f, d),
		Severity: toLSPSeverity(d.Severity),
		Code:     d.Source,
		Source:   diagnosticSource,
		Message:  d.Message,
	}

	// Add documentation URL if available
	if d.DocumentationURL != "" {
		diag.CodeDescription = &CodeDescription{Href: d.DocumentationURL}
	} else {
		diag.CodeDescription = &CodeDescription{Href: lint.BuildDocURL(d.RuleID)}
	}
	return diag
}

func diagnosticRange(doc *Document, f *source.File, d lint.Diagnostic) Range {
	start := d.Pos.Offset
	end := start
	if f != nil && f.Valid(d.Ptr) {
		content := f.Token(d.Ptr).Content
		if i := strings.IndexAny(content, "\r\n"); i >= 0 {
			content = content[:i]
		}
		end = start + len(content)
	}
	return doc.Range(start, end)
}

// toLSPSeverity converts lint.Severity to LSP DiagnosticSeverity.
func toLSPSeverity(s lint.Severity) DiagnosticSeverity {
	switch s {
	case lint.SeverityError:
		return DiagnosticSeverityError
	case lint.SeverityWarning:
		return DiagnosticSeverityWarning
	default:
		return DiagnosticSeverityInformation
	}
}
