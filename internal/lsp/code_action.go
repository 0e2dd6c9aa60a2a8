package lsp

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/leapstack-labs/sniff/pkg/lint"
	"github.com/leapstack-labs/sniff/pkg/source"
)

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	actions := s.getCodeActions(params)
	s.sendResponse(msg.ID, actions, nil)
	return nil
}

// handleFormatting fixes every fixable violation of the document.
func (s *Server) handleFormatting(msg *JSONRPCMessage) error {
	var params DocumentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	edits := []TextEdit{}
	if edit := s.fixAllEdit(params.TextDocument.URI); edit != nil {
		edits = append(edits, *edit)
	}
	s.sendResponse(msg.ID, edits, nil)
	return nil
}

// wants reports whether a code action of kind was requested. An empty only
// list requests every kind; a parent kind requests its children.
func wants(only []CodeActionKind, kind CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, k := range only {
		if k == kind || strings.HasPrefix(string(kind), string(k)+".") {
			return true
		}
	}
	return false
}

// getCodeActions returns a quick fix for each fixable diagnostic in the
// request, and a fix-all action when the document has fixable violations.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}
	uri := params.TextDocument.URI

	a, _, err := s.analyze(uri)
	if a == nil || err != nil {
		return actions
	}

	if wants(params.Context.Only, CodeActionKindQuickFix) {
		for _, want := range params.Context.Diagnostics {
			for _, d := range a.diags {
				if !d.Fixable() || d.Source != want.Code {
					continue
				}
				if diagnosticRange(a.doc, a.file, d).Start != want.Range.Start {
					continue
				}
				edits, ok := fixEdits(a.doc, a.file, d.Fix)
				if !ok {
					continue
				}
				actions = append(actions, CodeAction{
					Title:       "Fix: " + d.Message,
					Kind:        CodeActionKindQuickFix,
					Diagnostics: []Diagnostic{want},
					IsPreferred: true,
					Edit:        &WorkspaceEdit{Changes: map[string][]TextEdit{uri: edits}},
				})
				break
			}
		}
	}

	if wants(params.Context.Only, CodeActionKindSourceFixAll) && slices.ContainsFunc(a.diags, lint.Diagnostic.Fixable) {
		if edit := s.fixAllEdit(uri); edit != nil {
			actions = append(actions, CodeAction{
				Title: "Fix all sniff violations",
				Kind:  CodeActionKindSourceFixAll,
				Edit:  &WorkspaceEdit{Changes: map[string][]TextEdit{uri: {*edit}}},
			})
		}
	}

	return actions
}

// fixAllEdit runs the fixer over the document and returns an edit replacing
// its content, or nil when nothing changes.
func (s *Server) fixAllEdit(uri string) *TextEdit {
	doc := s.documents.Get(uri)
	eng := s.currentEngine()
	if doc == nil || eng == nil || !s.checks(eng, URIToPath(uri)) {
		return nil
	}

	res, err := eng.FixSource(context.Background(), URIToPath(uri), doc.Content)
	if res == nil || !res.Changed() {
		if err != nil {
			s.logger.Warn("fix failed", "uri", uri, "error", err)
		}
		return nil
	}
	return &TextEdit{Range: doc.FullRange(), NewText: res.Fixed}
}

// fixEdits converts the token edits of fix into text edits, one per touched
// token, ordered by position. It reports false when the fix refers to tokens
// the file does not have.
func fixEdits(doc *Document, f *source.File, fix *lint.Fix) ([]TextEdit, bool) {
	indices := fix.Tokens()
	content := make(map[int]string, len(indices))
	for _, i := range indices {
		if !f.Valid(i) {
			return nil, false
		}
		content[i] = f.Token(i).Content
	}

	for _, e := range fix.Edits {
		switch e.Op {
		case lint.Replace:
			content[e.Index] = e.Text
		case lint.Delete:
			content[e.Index] = ""
		case lint.InsertBefore:
			content[e.Index] = e.Text + content[e.Index]
		case lint.InsertAfter:
			content[e.Index] += e.Text
		}
	}

	slices.Sort(indices)
	edits := make([]TextEdit, 0, len(indices))
	for _, i := range indices {
		tok := f.Token(i)
		edits = append(edits, TextEdit{
			Range:   doc.Range(tok.Offset, tok.Offset+len(tok.Content)),
			NewText: content[i],
		})
	}
	return edits, true
}
