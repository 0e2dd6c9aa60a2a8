// Package commenting provides rules for inline comments and doc blocks.
//
// Rules in this package:
//   - CodingStandard.Commenting.InlineComment: style of // comments
//   - CodingStandard.Commenting.DocComment: doc block layout, extending
//     Generic.Commenting.DocComment
//   - CodingStandard.Commenting.FunctionComment: function doc block content
//   - CodingStandard.Commenting.TypeComment: one-line @var annotations
package commenting

import (
	"strings"

	"github.com/leapstack-labs/sniff/pkg/source"
)

// isTypeComment reports whether the doc block opened at opener documents a
// variable type with @var or @type.
func isTypeComment(f *source.File, opener int) bool {
	closer := f.Token(opener).CommentCloser
	if closer < opener {
		return false
	}
	text := f.TokensAsString(opener, closer-opener+1)
	return strings.Contains(text, "@var") || strings.Contains(text, "@type")
}
