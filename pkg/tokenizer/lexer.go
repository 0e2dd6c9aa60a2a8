// Package tokenizer turns PHP and JavaScript source into the flat token
// array rules inspect, complete with bracket, parenthesis and scope metadata.
package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/sniff/pkg/token"
)

// Tokenize splits src into tokens and resolves their structural metadata.
// The concatenated token contents always equal src.
func Tokenize(src string, lang token.Language) ([]token.Token, error) {
	l := newLexer(src, lang)
	if err := l.run(); err != nil {
		return nil, err
	}
	resolve(l.tokens, lang)
	return l.tokens, nil
}

// lexer scans source text. It works on byte offsets and tracks the line and
// column of the next unread byte.
type lexer struct {
	input  string
	lang   token.Language
	pos    int
	line   int
	col    int
	inCode bool
	tokens []token.Token
}

func newLexer(input string, lang token.Language) *lexer {
	return &lexer{
		input:  input,
		lang:   lang,
		line:   1,
		col:    1,
		inCode: lang == token.JS,
	}
}

// currentPos returns the current position.
func (l *lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// peekChar returns the byte n positions ahead without advancing.
func (l *lexer) peekChar(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// emit records input[pos:end] as one token and advances past it.
func (l *lexer) emit(kind token.Kind, end int) {
	content := l.input[l.pos:end]
	l.tokens = append(l.tokens, token.New(kind, content, l.line, l.col, l.pos))
	for _, r := range content {
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	l.pos = end
}

func (l *lexer) run() error {
	for l.pos < len(l.input) {
		if !l.inCode {
			l.lexInlineHTML()
			continue
		}
		if err := l.lexCode(); err != nil {
			return err
		}
	}
	return nil
}

func (l *lexer) lexInlineHTML() {
	rest := l.input[l.pos:]
	idx := strings.Index(rest, "<?")
	for idx >= 0 && !strings.HasPrefix(rest[idx:], "<?php") && !strings.HasPrefix(rest[idx:], "<?=") {
		next := strings.Index(rest[idx+2:], "<?")
		if next < 0 {
			idx = -1
			break
		}
		idx += 2 + next
	}
	if idx < 0 {
		l.emit(token.INLINE_HTML, len(l.input))
		return
	}
	if idx > 0 {
		l.emit(token.INLINE_HTML, l.pos+idx)
	}

	l.inCode = true
	if strings.HasPrefix(l.input[l.pos:], "<?=") {
		l.emit(token.OPEN_TAG_WITH_ECHO, l.pos+3)
		return
	}

	// The open tag swallows one following whitespace character.
	end := l.pos + len("<?php")
	switch {
	case strings.HasPrefix(l.input[end:], "\r\n"):
		end += 2
	case end < len(l.input) && (l.input[end] == '\n' || l.input[end] == ' ' || l.input[end] == '\t'):
		end++
	}
	l.emit(token.OPEN_TAG, end)
}

func (l *lexer) lexCode() error {
	ch := l.input[l.pos]

	switch {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		l.lexWhitespace()
		return nil
	case l.lang == token.PHP && ch == '?' && l.peekChar(1) == '>':
		end := l.pos + 2
		if strings.HasPrefix(l.input[end:], "\r\n") {
			end += 2
		} else if end < len(l.input) && l.input[end] == '\n' {
			end++
		}
		l.emit(token.CLOSE_TAG, end)
		l.inCode = false
		return nil
	case ch == '#' && l.lang == token.PHP:
		l.lexLineComment()
		return nil
	case ch == '/' && l.peekChar(1) == '/':
		l.lexLineComment()
		return nil
	case ch == '/' && l.peekChar(1) == '*':
		// A doc block needs whitespace after "/**"; "/**@var" is a plain comment.
		if l.peekChar(2) == '*' && isDocSpace(l.peekChar(3)) {
			return l.lexDocComment()
		}
		return l.lexBlockComment()
	case ch == '$' && l.lang == token.PHP && isIdentStart(l.peekChar(1), l.lang):
		end := l.pos + 1
		for end < len(l.input) && isIdentChar(l.input[end], l.lang) {
			end++
		}
		l.emit(token.VARIABLE, end)
		return nil
	case isIdentStart(ch, l.lang):
		end := l.pos
		for end < len(l.input) && isIdentChar(l.input[end], l.lang) {
			end++
		}
		l.emit(lookupIdent(l.input[l.pos:end], l.lang), end)
		return nil
	case isDigit(ch) || (ch == '.' && isDigit(l.peekChar(1))):
		l.lexNumber()
		return nil
	case ch == '\'' || ch == '"' || (ch == '`' && l.lang == token.JS):
		return l.lexString(ch)
	case l.lang == token.PHP && strings.HasPrefix(l.input[l.pos:], "<<<"):
		if ok, err := l.lexHeredoc(); ok || err != nil {
			return err
		}
	}

	ops := phpOperators
	if l.lang == token.JS {
		ops = jsOperators
	}
	rest := l.input[l.pos:]
	for _, op := range ops {
		if strings.HasPrefix(rest, op.text) {
			l.emit(op.kind, l.pos+len(op.text))
			return nil
		}
	}

	_, size := utf8.DecodeRuneInString(rest)
	l.emit(token.ILLEGAL, l.pos+size)
	return nil
}

// lexWhitespace emits a run of blanks ending at, and including, the first
// newline so that no whitespace token spans two lines.
func (l *lexer) lexWhitespace() {
	end := l.pos
	for end < len(l.input) && (l.input[end] == ' ' || l.input[end] == '\t') {
		end++
	}
	switch {
	case strings.HasPrefix(l.input[end:], "\r\n"):
		end += 2
	case end < len(l.input) && (l.input[end] == '\n' || l.input[end] == '\r'):
		end++
	}
	l.emit(token.WHITESPACE, end)
}

// lexLineComment emits a // or # comment including its newline.
func (l *lexer) lexLineComment() {
	rest := l.input[l.pos:]
	end := strings.IndexByte(rest, '\n')
	if end < 0 {
		end = len(rest)
	} else {
		end++
	}
	if l.lang == token.PHP {
		if tag := strings.Index(rest[:end], "?>"); tag >= 0 {
			end = tag
		}
	}
	l.emit(token.COMMENT, l.pos+end)
}

// lexBlockComment emits a /* */ comment as one COMMENT token per line.
func (l *lexer) lexBlockComment() error {
	start := l.currentPos()
	closeAt := strings.Index(l.input[l.pos+2:], "*/")
	if closeAt < 0 {
		return &LexError{Pos: start, Message: "unterminated comment", Err: ErrUnterminated}
	}
	end := l.pos + 2 + closeAt + 2
	for l.pos < end {
		nl := strings.IndexByte(l.input[l.pos:end], '\n')
		if nl < 0 {
			l.emit(token.COMMENT, end)
			break
		}
		l.emit(token.COMMENT, l.pos+nl+1)
	}
	return nil
}

func isDocSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// lexDocComment splits a /** */ comment into its structural pieces.
func (l *lexer) lexDocComment() error {
	start := l.currentPos()
	if !strings.Contains(l.input[l.pos+3:], "*/") {
		return &LexError{Pos: start, Message: "unterminated doc comment", Err: ErrUnterminated}
	}

	opener := len(l.tokens)
	l.emit(token.DOC_COMMENT_OPEN_TAG, l.pos+3)
	var tags []int
	lineStart := false

	for {
		ch := l.input[l.pos]
		switch {
		case strings.HasPrefix(l.input[l.pos:], "*/"):
			closer := len(l.tokens)
			l.emit(token.DOC_COMMENT_CLOSE_TAG, l.pos+2)
			l.tokens[opener].CommentCloser = closer
			l.tokens[opener].CommentTags = tags
			for i := opener; i <= closer; i++ {
				l.tokens[i].CommentOpener = opener
				l.tokens[i].CommentCloser = closer
			}
			return nil
		case ch == '\n' || ch == '\r':
			end := l.pos + 1
			if ch == '\r' && l.peekChar(1) == '\n' {
				end++
			}
			l.emit(token.DOC_COMMENT_WHITESPACE, end)
			lineStart = true
		case ch == ' ' || ch == '\t':
			end := l.pos
			for end < len(l.input) && (l.input[end] == ' ' || l.input[end] == '\t') {
				end++
			}
			l.emit(token.DOC_COMMENT_WHITESPACE, end)
		case ch == '*' && lineStart:
			l.emit(token.DOC_COMMENT_STAR, l.pos+1)
			lineStart = false
		case ch == '@' && isIdentStart(l.peekChar(1), token.PHP):
			end := l.pos + 1
			for end < len(l.input) && (isIdentChar(l.input[end], token.PHP) || l.input[end] == '-' || l.input[end] == '\\') {
				end++
			}
			tags = append(tags, len(l.tokens))
			l.emit(token.DOC_COMMENT_TAG, end)
			lineStart = false
		default:
			end := l.pos
			for end < len(l.input) && l.input[end] != '\n' && l.input[end] != '\r' && !strings.HasPrefix(l.input[end:], "*/") {
				end++
			}
			// Trailing blanks become their own whitespace token.
			trimmed := strings.TrimRight(l.input[l.pos:end], " \t")
			l.emit(token.DOC_COMMENT_STRING, l.pos+len(trimmed))
			lineStart = false
		}
	}
}

func (l *lexer) lexNumber() {
	end := l.pos
	kind := token.LNUMBER
	if strings.HasPrefix(l.input[end:], "0x") || strings.HasPrefix(l.input[end:], "0X") {
		end += 2
		for end < len(l.input) && isHexDigit(l.input[end]) {
			end++
		}
		l.emit(kind, end)
		return
	}
	for end < len(l.input) && (isDigit(l.input[end]) || l.input[end] == '_') {
		end++
	}
	if end < len(l.input) && l.input[end] == '.' && (end+1 >= len(l.input) || isDigit(l.input[end+1])) {
		kind = token.DNUMBER
		end++
		for end < len(l.input) && isDigit(l.input[end]) {
			end++
		}
	}
	if end < len(l.input) && (l.input[end] == 'e' || l.input[end] == 'E') {
		exp := end + 1
		if exp < len(l.input) && (l.input[exp] == '+' || l.input[exp] == '-') {
			exp++
		}
		if exp < len(l.input) && isDigit(l.input[exp]) {
			kind = token.DNUMBER
			end = exp
			for end < len(l.input) && isDigit(l.input[end]) {
				end++
			}
		}
	}
	l.emit(kind, end)
}

func (l *lexer) lexString(quote byte) error {
	start := l.currentPos()
	interpolated := false
	end := l.pos + 1
	for {
		if end >= len(l.input) {
			return &LexError{Pos: start, Message: "unterminated string literal", Err: ErrUnterminated}
		}
		ch := l.input[end]
		if ch == '\\' {
			end += 2
			continue
		}
		if ch == quote {
			end++
			break
		}
		if quote == '"' && l.lang == token.PHP {
			if ch == '$' && end+1 < len(l.input) && (isIdentStart(l.input[end+1], token.PHP) || l.input[end+1] == '{') {
				interpolated = true
			}
			if ch == '{' && end+1 < len(l.input) && l.input[end+1] == '$' {
				interpolated = true
			}
		}
		end++
	}

	kind := token.CONSTANT_ENCAPSED_STRING
	if interpolated {
		kind = token.DOUBLE_QUOTED_STRING
	}
	l.emit(kind, end)
	return nil
}

// lexHeredoc emits a heredoc or nowdoc as a single string token. It reports
// false when the <<< is not followed by a valid label.
func (l *lexer) lexHeredoc() (bool, error) {
	start := l.currentPos()
	i := l.pos + 3
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	quote := byte(0)
	if i < len(l.input) && (l.input[i] == '\'' || l.input[i] == '"') {
		quote = l.input[i]
		i++
	}
	labelStart := i
	for i < len(l.input) && isIdentChar(l.input[i], token.PHP) {
		i++
	}
	label := l.input[labelStart:i]
	if label == "" || !isIdentStart(label[0], token.PHP) {
		return false, nil
	}
	if quote != 0 {
		if i >= len(l.input) || l.input[i] != quote {
			return false, nil
		}
		i++
	}
	nl := strings.IndexByte(l.input[i:], '\n')
	if nl < 0 {
		return true, &LexError{Pos: start, Message: "unterminated heredoc", Err: ErrUnterminated}
	}
	i += nl + 1

	for i <= len(l.input) {
		lineEnd := strings.IndexByte(l.input[i:], '\n')
		line := l.input[i:]
		if lineEnd >= 0 {
			line = l.input[i : i+lineEnd]
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, label) && (len(trimmed) == len(label) || !isIdentChar(trimmed[len(label)], token.PHP)) {
			end := i + (len(line) - len(trimmed)) + len(label)
			kind := token.DOUBLE_QUOTED_STRING
			if quote == '\'' {
				kind = token.CONSTANT_ENCAPSED_STRING
			}
			l.emit(kind, end)
			return true, nil
		}
		if lineEnd < 0 {
			break
		}
		i += lineEnd + 1
	}
	return true, &LexError{Pos: start, Message: "unterminated heredoc", Err: ErrUnterminated}
}

func isIdentStart(ch byte, lang token.Language) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80 || (lang == token.JS && ch == '$')
}

func isIdentChar(ch byte, lang token.Language) bool {
	return isIdentStart(ch, lang) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
