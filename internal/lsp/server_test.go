package lsp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/sniff/internal/testutil"
)

const commaSource = "CodingStandard.WhiteSpace.CommaSpacing.After"

// session scripts client messages and collects what the server sends back.
type session struct {
	t   *testing.T
	in  bytes.Buffer
	out []*JSONRPCMessage
}

func (c *session) send(id int, method string, params any) {
	c.t.Helper()
	msg := map[string]any{"jsonrpc": "2.0", "method": method, "params": params}
	if id > 0 {
		msg["id"] = id
	}
	body, err := json.Marshal(msg)
	require.NoError(c.t, err)
	fmt.Fprintf(&c.in, "Content-Length: %d\r\n\r\n%s", len(body), body)
}

// run serves the scripted messages until the input is exhausted.
func (c *session) run(version string) {
	c.t.Helper()
	var out bytes.Buffer
	srv := NewServerWithLogger(&c.in, &out, testutil.NewTestLogger(c.t))
	srv.SetVersion(version)
	require.NoError(c.t, srv.Run())

	reader := NewServerWithLogger(&out, nil, testutil.NewTestLogger(c.t))
	for {
		msg, err := reader.readMessage()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(c.t, err)
		c.out = append(c.out, msg)
	}
}

func (c *session) response(id int) *JSONRPCMessage {
	c.t.Helper()
	for _, msg := range c.out {
		if msg.ID != nil && string(*msg.ID) == strconv.Itoa(id) {
			return msg
		}
	}
	c.t.Fatalf("no response to request %d", id)
	return nil
}

func (c *session) notifications(method string) []*JSONRPCMessage {
	var out []*JSONRPCMessage
	for _, msg := range c.out {
		if msg.ID == nil && msg.Method == method {
			out = append(out, msg)
		}
	}
	return out
}

func (c *session) published(uri string) []PublishDiagnosticsParams {
	c.t.Helper()
	var out []PublishDiagnosticsParams
	for _, msg := range c.notifications("textDocument/publishDiagnostics") {
		var p PublishDiagnosticsParams
		require.NoError(c.t, json.Unmarshal(msg.Params, &p))
		if p.URI == uri {
			out = append(out, p)
		}
	}
	return out
}

func workspace(t *testing.T, config string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sniff.yaml"), []byte(config), 0o644))
	return dir, PathToURI(dir)
}

func newSession(t *testing.T, rootURI string) *session {
	c := &session{t: t}
	c.send(1, "initialize", map[string]any{"processId": 1, "rootUri": rootURI})
	c.send(0, "initialized", map[string]any{})
	return c
}

func openDoc(c *session, uri, text string) {
	c.send(0, "textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "php", "version": 1, "text": text},
	})
}

// applyEdits applies non-overlapping edits to content.
func applyEdits(content string, edits []TextEdit) string {
	doc := &Document{Content: content, Lines: computeLineOffsets(content)}
	sort.Slice(edits, func(i, j int) bool {
		return doc.PositionToOffset(edits[i].Range.Start) > doc.PositionToOffset(edits[j].Range.Start)
	})
	for _, e := range edits {
		start, end := doc.PositionToOffset(e.Range.Start), doc.PositionToOffset(e.Range.End)
		content = content[:start] + e.NewText + content[end:]
	}
	return content
}

func findDiagnostic(diags []Diagnostic, code string) (Diagnostic, bool) {
	for _, d := range diags {
		if d.Code == code {
			return d, true
		}
	}
	return Diagnostic{}, false
}

func TestServer_Session(t *testing.T) {
	defer goleak.VerifyNone(t)

	const src = "<?php\nfoo($a,$b);\n"
	dir, root := workspace(t, "lint:\n  standard: CodingStandard\n")
	uri := PathToURI(filepath.Join(dir, "src", "a.php"))

	// The first session publishes diagnostics for the document.
	c := newSession(t, root)
	openDoc(c, uri, src)
	c.send(2, "shutdown", nil)
	c.run("1.2.3")

	var init InitializeResult
	require.NoError(t, json.Unmarshal(c.response(1).Result, &init))
	require.NotNil(t, init.ServerInfo)
	assert.Equal(t, "sniff", init.ServerInfo.Name)
	assert.Equal(t, "1.2.3", init.ServerInfo.Version)
	require.NotNil(t, init.Capabilities.CodeActionProvider)
	assert.Contains(t, init.Capabilities.CodeActionProvider.CodeActionKinds, CodeActionKindQuickFix)
	assert.True(t, init.Capabilities.DocumentFormattingProvider)
	assert.Empty(t, c.notifications("window/showMessage"))

	published := c.published(uri)
	require.Len(t, published, 1)
	require.NotNil(t, published[0].Version)
	assert.Equal(t, 1, *published[0].Version)
	diag, ok := findDiagnostic(published[0].Diagnostics, commaSource)
	require.True(t, ok, "comma diagnostic should be published: %+v", published[0].Diagnostics)
	assert.Equal(t, Range{Start: Position{Line: 1, Character: 6}, End: Position{Line: 1, Character: 7}}, diag.Range)
	assert.Equal(t, DiagnosticSeverityError, diag.Severity)
	assert.Equal(t, "sniff", diag.Source)
	require.NotNil(t, diag.CodeDescription)
	assert.NotEmpty(t, diag.CodeDescription.Href)

	// The second session asks for fixes of the published diagnostic.
	c = newSession(t, root)
	openDoc(c, uri, src)
	c.send(2, "textDocument/codeAction", CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        diag.Range,
		Context:      CodeActionContext{Diagnostics: []Diagnostic{diag}},
	})
	c.send(3, "textDocument/formatting", DocumentFormattingParams{TextDocument: TextDocumentIdentifier{URI: uri}})
	c.send(4, "textDocument/hover", map[string]any{})
	c.send(5, "shutdown", nil)
	c.run("1.2.3")

	var actions []CodeAction
	require.NoError(t, json.Unmarshal(c.response(2).Result, &actions))
	require.Len(t, actions, 2)

	quick := actions[0]
	assert.Equal(t, CodeActionKindQuickFix, quick.Kind)
	assert.True(t, quick.IsPreferred)
	require.NotNil(t, quick.Edit)
	assert.Equal(t, "<?php\nfoo($a, $b);\n", applyEdits(src, quick.Edit.Changes[uri]))

	fixAll := actions[1]
	assert.Equal(t, CodeActionKindSourceFixAll, fixAll.Kind)
	require.NotNil(t, fixAll.Edit)
	require.Len(t, fixAll.Edit.Changes[uri], 1)
	assert.Contains(t, fixAll.Edit.Changes[uri][0].NewText, "foo($a, $b);")

	var formatting []TextEdit
	require.NoError(t, json.Unmarshal(c.response(3).Result, &formatting))
	require.Len(t, formatting, 1)
	assert.Equal(t, fixAll.Edit.Changes[uri][0], formatting[0])

	hover := c.response(4)
	require.NotNil(t, hover.Error)
	assert.Equal(t, codeMethodNotFound, hover.Error.Code)
}

func TestServer_CodeActionOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir, root := workspace(t, "lint:\n  standard: CodingStandard\n")
	uri := PathToURI(filepath.Join(dir, "a.php"))

	c := newSession(t, root)
	openDoc(c, uri, "<?php\nfoo($a,$b);\n")
	c.send(2, "textDocument/codeAction", CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Context:      CodeActionContext{Only: []CodeActionKind{"source"}},
	})
	c.send(3, "shutdown", nil)
	c.run("dev")

	var actions []CodeAction
	require.NoError(t, json.Unmarshal(c.response(2).Result, &actions))
	require.Len(t, actions, 1)
	assert.Equal(t, CodeActionKindSourceFixAll, actions[0].Kind)
}

func TestServer_Documents(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir, root := workspace(t, "lint:\n  standard: CodingStandard\n")
	broken := PathToURI(filepath.Join(dir, "broken.php"))
	notes := PathToURI(filepath.Join(dir, "notes.txt"))
	vendored := PathToURI(filepath.Join(dir, "vendor", "lib", "a.php"))
	edited := PathToURI(filepath.Join(dir, "edited.php"))

	c := newSession(t, root)
	openDoc(c, broken, "<?php\n/* open")
	openDoc(c, notes, "foo($a,$b);\n")
	openDoc(c, vendored, "<?php\nfoo($a,$b);\n")
	openDoc(c, edited, "<?php\nfoo($a,$b);\n")
	c.send(0, "textDocument/didChange", map[string]any{
		"textDocument":   map[string]any{"uri": edited, "version": 2},
		"contentChanges": []map[string]any{{"text": "<?php\nfoo($a, $b);\n"}},
	})
	c.send(0, "textDocument/didClose", map[string]any{"textDocument": map[string]any{"uri": edited}})
	c.send(2, "shutdown", nil)
	c.run("dev")

	p := c.published(broken)
	require.Len(t, p, 1)
	require.Len(t, p[0].Diagnostics, 1)
	assert.Equal(t, tokenizerCode, p[0].Diagnostics[0].Code)
	assert.Equal(t, DiagnosticSeverityError, p[0].Diagnostics[0].Severity)

	for _, uri := range []string{notes, vendored} {
		p := c.published(uri)
		require.Len(t, p, 1, uri)
		assert.Empty(t, p[0].Diagnostics, uri)
	}

	p = c.published(edited)
	require.Len(t, p, 3)
	_, ok := findDiagnostic(p[0].Diagnostics, commaSource)
	assert.True(t, ok)
	require.NotNil(t, p[1].Version)
	assert.Equal(t, 2, *p[1].Version)
	_, ok = findDiagnostic(p[1].Diagnostics, commaSource)
	assert.False(t, ok)
	assert.Empty(t, p[2].Diagnostics, "close clears diagnostics")
}

func TestServer_ConfigError(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir, root := workspace(t, "output: bogus\n")
	uri := PathToURI(filepath.Join(dir, "a.php"))

	c := newSession(t, root)
	openDoc(c, uri, "<?php\nfoo($a,$b);\n")
	c.send(2, "shutdown", nil)
	c.run("dev")

	msgs := c.notifications("window/showMessage")
	require.Len(t, msgs, 1)
	var shown ShowMessageParams
	require.NoError(t, json.Unmarshal(msgs[0].Params, &shown))
	assert.Equal(t, MessageTypeError, shown.Type)
	assert.Contains(t, shown.Message, "load configuration")

	p := c.published(uri)
	require.Len(t, p, 1)
	assert.Empty(t, p[0].Diagnostics)
}

func TestServer_ReloadOnSave(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir, root := workspace(t, "lint:\n  standard: CodingStandard\n")
	cfgPath := filepath.Join(dir, "sniff.yaml")
	uri := PathToURI(filepath.Join(dir, "a.php"))

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	srv := NewServerWithLogger(inR, outW, testutil.NewTestLogger(t))
	done := make(chan error, 1)
	go func() {
		done <- srv.Run()
		_ = outW.Close()
	}()

	c := &session{t: t}
	client := NewServerWithLogger(outR, io.Discard, testutil.NewTestLogger(t))
	exchange := func(id int, method string, params any, replies int) []*JSONRPCMessage {
		t.Helper()
		c.in.Reset()
		c.send(id, method, params)
		_, err := inW.Write(c.in.Bytes())
		require.NoError(t, err)
		var got []*JSONRPCMessage
		for range replies {
			msg, err := client.readMessage()
			require.NoError(t, err)
			got = append(got, msg)
		}
		return got
	}
	comma := func(msg *JSONRPCMessage) bool {
		t.Helper()
		require.Equal(t, "textDocument/publishDiagnostics", msg.Method)
		var p PublishDiagnosticsParams
		require.NoError(t, json.Unmarshal(msg.Params, &p))
		_, ok := findDiagnostic(p.Diagnostics, commaSource)
		return ok
	}

	exchange(1, "initialize", map[string]any{"processId": 1, "rootUri": root}, 1)
	exchange(0, "initialized", map[string]any{}, 0)
	opened := exchange(0, "textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "php", "version": 1, "text": "<?php\nfoo($a,$b);\n"},
	}, 1)
	assert.True(t, comma(opened[0]))

	require.NoError(t, os.WriteFile(cfgPath, []byte("lint:\n  disabled: [CodingStandard.WhiteSpace.CommaSpacing]\n"), 0o644))
	saved := exchange(0, "textDocument/didSave", map[string]any{"textDocument": map[string]any{"uri": PathToURI(cfgPath)}}, 1)
	assert.False(t, comma(saved[0]), "reloaded configuration disables the rule")

	exchange(2, "shutdown", nil, 1)
	require.NoError(t, <-done)
	_ = inW.Close()
	_ = outR.Close()
}

func TestWants(t *testing.T) {
	assert.True(t, wants(nil, CodeActionKindQuickFix))
	assert.True(t, wants([]CodeActionKind{CodeActionKindQuickFix}, CodeActionKindQuickFix))
	assert.False(t, wants([]CodeActionKind{CodeActionKindQuickFix}, CodeActionKindSourceFixAll))
	assert.True(t, wants([]CodeActionKind{"source"}, CodeActionKindSourceFixAll))
	assert.False(t, wants([]CodeActionKind{"sour"}, CodeActionKindSourceFixAll))
}
