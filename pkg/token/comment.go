package token

import "strings"

// CommentStyle distinguishes the syntaxes of a T_COMMENT token.
type CommentStyle int

// Comment styles.
const (
	SlashComment CommentStyle = iota // // comment
	HashComment                      // # comment
	BlockComment                     // /* comment */
)

// StyleOf classifies the content of a T_COMMENT token.
func StyleOf(content string) CommentStyle {
	switch {
	case strings.HasPrefix(content, "#"):
		return HashComment
	case strings.HasPrefix(content, "/*"):
		return BlockComment
	default:
		return SlashComment
	}
}

// CommentText strips the delimiters of a single-line comment and returns its text.
func CommentText(content string) string {
	switch StyleOf(content) {
	case HashComment:
		return strings.TrimRight(content[1:], "\r\n")
	case BlockComment:
		text := strings.TrimPrefix(content, "/*")
		return strings.TrimSuffix(strings.TrimRight(text, "\r\n"), "*/")
	default:
		return strings.TrimRight(strings.TrimPrefix(content, "//"), "\r\n")
	}
}
