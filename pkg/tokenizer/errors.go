package tokenizer

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sniff/pkg/token"
)

// ErrUnterminated is wrapped by LexError when a string or comment never closes.
var ErrUnterminated = errors.New("unterminated literal")

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
	Err     error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *LexError) Unwrap() error {
	return e.Err
}
