package lsp

import (
	"testing"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/index.php"
	content := "<?php\necho 1;\n"

	// Open document
	store.Open(uri, content, 1)

	// Get document
	doc := store.Get(uri)
	if doc == nil {
		t.Fatal("expected document to exist")
	}
	if doc.URI != uri {
		t.Errorf("expected URI %s, got %s", uri, doc.URI)
	}
	if doc.Content != content {
		t.Errorf("expected content %q, got %q", content, doc.Content)
	}
	if doc.Version != 1 {
		t.Errorf("expected version 1, got %d", doc.Version)
	}

	// Close document
	store.Close(uri)
	doc = store.Get(uri)
	if doc != nil {
		t.Error("expected document to be nil after close")
	}
}

func TestDocumentStore_Update(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/index.php"
	store.Open(uri, "<?php\necho 1;", 1)
	snapshot := store.Get(uri)

	// Update
	store.Update(uri, "<?php\necho 2;", 2)

	doc := store.Get(uri)
	if doc.Content != "<?php\necho 2;" {
		t.Errorf("expected updated content, got %q", doc.Content)
	}
	if doc.Version != 2 {
		t.Errorf("expected version 2, got %d", doc.Version)
	}
	if snapshot.Version != 1 {
		t.Errorf("earlier snapshot changed to version %d", snapshot.Version)
	}

	// Updating a closed document is a no-op
	store.Update("file:///missing.php", "x", 1)
	if store.Get("file:///missing.php") != nil {
		t.Error("update must not open documents")
	}
}

func TestDocumentStore_List(t *testing.T) {
	store := NewDocumentStore()

	store.Open("file:///a.php", "<?php", 1)
	store.Open("file:///b.php", "<?php", 1)
	store.Open("file:///c.js", "var c;", 1)

	uris := store.List()
	if len(uris) != 3 {
		t.Errorf("expected 3 URIs, got %d", len(uris))
	}
}

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		content  string
		expected []int
	}{
		{"", []int{0}},
		{"abc", []int{0}},
		{"a\nb", []int{0, 2}},
		{"a\nb\nc", []int{0, 2, 4}},
		{"\n\n\n", []int{0, 1, 2, 3}},
		{"line1\nline2\nline3", []int{0, 6, 12}},
	}

	for _, tt := range tests {
		offsets := computeLineOffsets(tt.content)
		if len(offsets) != len(tt.expected) {
			t.Errorf("content %q: expected %d offsets, got %d", tt.content, len(tt.expected), len(offsets))
			continue
		}
		for i, exp := range tt.expected {
			if offsets[i] != exp {
				t.Errorf("content %q: offset[%d] expected %d, got %d", tt.content, i, exp, offsets[i])
			}
		}
	}
}

func TestDocument_PositionToOffset(t *testing.T) {
	content := "line0\nline1\nline2"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		pos      Position
		expected int
	}{
		{Position{Line: 0, Character: 0}, 0},
		{Position{Line: 0, Character: 3}, 3},
		{Position{Line: 0, Character: 5}, 5},
		{Position{Line: 1, Character: 0}, 6},
		{Position{Line: 1, Character: 4}, 10},
		{Position{Line: 2, Character: 0}, 12},
		{Position{Line: 2, Character: 5}, 17},
		// Edge cases
		{Position{Line: 100, Character: 0}, len(content)}, // Line beyond document
		{Position{Line: 0, Character: 100}, 5},            // Character beyond line
		{Position{Line: 2, Character: 100}, len(content)}, // Character beyond last line
	}

	for _, tt := range tests {
		offset := doc.PositionToOffset(tt.pos)
		if offset != tt.expected {
			t.Errorf("PositionToOffset(%v): expected %d, got %d", tt.pos, tt.expected, offset)
		}
	}
}

func TestDocument_OffsetToPosition(t *testing.T) {
	content := "line0\nline1\nline2"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		offset   int
		expected Position
	}{
		{0, Position{Line: 0, Character: 0}},
		{3, Position{Line: 0, Character: 3}},
		{5, Position{Line: 0, Character: 5}},
		{6, Position{Line: 1, Character: 0}},
		{10, Position{Line: 1, Character: 4}},
		{12, Position{Line: 2, Character: 0}},
		{17, Position{Line: 2, Character: 5}},
		// Edge cases
		{-1, Position{Line: 0, Character: 0}},  // Negative offset
		{100, Position{Line: 2, Character: 5}}, // Beyond end
	}

	for _, tt := range tests {
		pos := doc.OffsetToPosition(tt.offset)
		if pos.Line != tt.expected.Line || pos.Character != tt.expected.Character {
			t.Errorf("OffsetToPosition(%d): expected %v, got %v", tt.offset, tt.expected, pos)
		}
	}
}

func TestDocument_UTF16Positions(t *testing.T) {
	// "é" is two bytes and one UTF-16 unit; "😀" is four bytes and two units.
	content := "<?php\n$é = '😀';\n"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	semicolon := len("<?php\n$é = '😀'")
	pos := doc.OffsetToPosition(semicolon)
	if pos != (Position{Line: 1, Character: 9}) {
		t.Errorf("OffsetToPosition(%d) = %v, want 1:9", semicolon, pos)
	}
	if got := doc.PositionToOffset(pos); got != semicolon {
		t.Errorf("PositionToOffset(%v) = %d, want %d", pos, got, semicolon)
	}
}

func TestDocument_Range(t *testing.T) {
	content := "a\nbc\n"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	full := doc.FullRange()
	if full.Start != (Position{}) || full.End != (Position{Line: 2, Character: 0}) {
		t.Errorf("FullRange() = %v", full)
	}
	r := doc.Range(2, 4)
	if r.Start != (Position{Line: 1, Character: 0}) || r.End != (Position{Line: 1, Character: 2}) {
		t.Errorf("Range(2, 4) = %v", r)
	}
}

func TestDocument_GetLine(t *testing.T) {
	content := "line0\r\nline1\nline2"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		line     int
		expected string
	}{
		{0, "line0"},
		{1, "line1"},
		{2, "line2"},
		{-1, ""},
		{100, ""},
	}

	for _, tt := range tests {
		line := doc.GetLine(tt.line)
		if line != tt.expected {
			t.Errorf("GetLine(%d): expected %q, got %q", tt.line, tt.expected, line)
		}
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
	}{
		{"file:///Users/test/index.php", "/Users/test/index.php"},
		{"file:///home/user/app.js", "/home/user/app.js"},
		{"file:///home/user/my%20project/a.php", "/home/user/my project/a.php"},
		{"/already/a/path.php", "/already/a/path.php"},
	}

	for _, tt := range tests {
		path := URIToPath(tt.uri)
		if path != tt.expected {
			t.Errorf("URIToPath(%q): expected %q, got %q", tt.uri, tt.expected, path)
		}
	}
}

func TestPathToURI(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/Users/test/index.php", "file:///Users/test/index.php"},
		{"/home/user/my project/a.php", "file:///home/user/my%20project/a.php"},
		{"file:///already/uri.php", "file:///already/uri.php"},
	}

	for _, tt := range tests {
		uri := PathToURI(tt.path)
		if uri != tt.expected {
			t.Errorf("PathToURI(%q): expected %q, got %q", tt.path, tt.expected, uri)
		}
	}
}
