package tokenizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sniff/pkg/source"
	"github.com/leapstack-labs/sniff/pkg/token"
)

// extensions maps file extensions to the language they are tokenized as.
var extensions = map[string]token.Language{
	".php":   token.PHP,
	".inc":   token.PHP,
	".phtml": token.PHP,
	".js":    token.JS,
}

// LanguageFor returns the language of path from its extension. Unknown
// extensions report false.
func LanguageFor(path string) (token.Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Supported reports whether path has an extension the tokenizer handles.
func Supported(path string) bool {
	_, ok := LanguageFor(path)
	return ok
}

// NewFile tokenizes src and wraps it in a source.File. Files with unknown
// extensions are treated as PHP.
func NewFile(path, src string, opts ...source.Option) (*source.File, error) {
	lang, ok := LanguageFor(path)
	if !ok {
		lang = token.PHP
	}
	tokens, err := Tokenize(src, lang)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", path, err)
	}
	return source.New(path, lang, src, tokens, opts...), nil
}
