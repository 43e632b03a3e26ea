// Package lexer splits a raw command line into the tokens the REPL dispatches on.
//
// Splitting is deliberately minimal: tokens are separated by the space
// character only, runs of spaces never produce empty tokens, and there is no
// quoting or escaping of any kind.
package lexer

import (
	"strings"

	"github.com/samber/lo"
)

// MaxTokens is the largest number of tokens Tokenize returns.
// Anything past it is dropped.
const MaxTokens = 256

// Separator is the only character that separates tokens.
const Separator = " "

// Tokens is an ordered list of tokens. The first one names the command.
type Tokens []string

// Tokenize splits line into at most MaxTokens tokens.
// An empty or all-space line yields an empty list.
func Tokenize(line string) Tokens {
	tokens := lo.Compact(strings.Split(line, Separator))
	if len(tokens) > MaxTokens {
		tokens = tokens[:MaxTokens]
	}
	return Tokens(tokens)
}

// Join is the inverse of Tokenize for lines made of single-space separated words.
func Join(tokens Tokens) string {
	return strings.Join(tokens, Separator)
}

// Empty reports whether there is no command at all.
func (t Tokens) Empty() bool {
	return len(t) == 0
}

// Command returns the command name, or "" for an empty list.
func (t Tokens) Command() string {
	if t.Empty() {
		return ""
	}
	return t[0]
}

// Args returns everything after the command name.
func (t Tokens) Args() []string {
	if t.Empty() {
		return nil
	}
	return t[1:]
}
