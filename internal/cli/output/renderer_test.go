package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(mode Mode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		tty  bool
		want Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _, _ := newTest(tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, _ := newTest(ModeAuto, false)

	r.Header(2, "Rules")
	r.StatusLine("a.php", "fixed", "2 edits")
	r.Success("done")

	got := out.String()
	assert.Contains(t, got, "## Rules\n\n")
	assert.Contains(t, got, "- **a.php**: fixed (2 edits)\n")
	assert.Contains(t, got, "✓ done\n")
	assert.NotContains(t, got, "\x1b[")
}

func TestRenderer_Text(t *testing.T) {
	r, out, _ := newTest(ModeText, false)

	r.Header(1, "Rules")
	r.StatusLine("a.php", "fixed", "")

	assert.Equal(t, "Rules\n  a.php  fixed\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, errOut := newTest(ModeJSON, false)

	r.Success("done")
	require.NoError(t, r.JSON(LintSummary{Files: 2, Errors: 1}))

	var got LintSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, LintSummary{Files: 2, Errors: 1}, got)
	assert.Contains(t, errOut.String(), "done")
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"ID", "Fixable"}
	rows := [][]string{{"CodingStandard.Arrays.Array", "yes"}}

	r, out, _ := newTest(ModeMarkdown, false)
	r.Table(header, rows)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "| ID"), lines[0])
	assert.Contains(t, lines[2], "CodingStandard.Arrays.Array")

	r, out, _ = newTest(ModeText, true)
	r.Table(header, rows)
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "CodingStandard.Arrays.Array")
}

func TestStyles_Plain(t *testing.T) {
	r, _, _ := newTest(ModeText, false)
	assert.Equal(t, "error", r.Styles().Error.Render("error"))
}
