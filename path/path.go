// Package path implements the tokenizer half of the path resolver: it
// turns a path string into the token sequence the resolver folds over. The
// walk itself lives in package fs, since it needs live access to the
// directory codec, the FAT, and the permission checks that each operation
// performs at its own call site rather than centralizing in the resolver.
package path

import "strings"

// Kind tags what a Token means, the Go equivalent of a small sum type
// {Root, Parent, Name(string)}.
type Kind int

const (
	Root Kind = iota
	Parent
	Name
)

// Token is one step of a tokenized path.
type Token struct {
	Kind Kind
	Name string // only meaningful when Kind == Name
}

// Tokenize splits p into the token sequence the resolver walks:
//   - a leading "/" becomes the Root sentinel token
//   - "." components are dropped
//   - ".." components become Parent tokens
//   - everything else becomes a Name token
//   - empty components (consecutive or trailing slashes) are dropped
func Tokenize(p string) []Token {
	var tokens []Token
	if strings.HasPrefix(p, "/") {
		tokens = append(tokens, Token{Kind: Root})
	}
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "":
			continue
		case ".":
			continue
		case "..":
			tokens = append(tokens, Token{Kind: Parent})
		default:
			tokens = append(tokens, Token{Kind: Name, Name: part})
		}
	}
	return tokens
}

// Split pops the last token off a tokenized path, returning the remaining
// "parent" tokens and the leaf name. Callers use this before resolving: the
// resolver's job is only to find the containing directory block.
//
// Split returns ok=false if the path names no leaf at all (e.g. "/" or "").
func Split(tokens []Token) (parent []Token, leaf string, ok bool) {
	if len(tokens) == 0 {
		return nil, "", false
	}
	last := tokens[len(tokens)-1]
	if last.Kind != Name {
		// trailing ".." or the bare root sentinel names no leaf file;
		// callers that accept a directory here (cd, mv's destination,
		// stat) resolve the full token list when ok is false.
		return tokens, "", false
	}
	return tokens[:len(tokens)-1], last.Name, true
}
