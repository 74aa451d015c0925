// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package tokenize

import (
	"unicode"
	"unicode/utf8"
)

// Kind classifies a run of characters within an address string.
type Kind int

const (
	Word Kind = iota
	Number
	Comma
	Hyphen
	Whitespace
	Punct
)

// Token is a piece of text together with its classification.
type Token struct {
	Text string
	Kind Kind
}

// RawToken locates a token inside the original string by byte offset and length.
type RawToken struct {
	Start  int
	Length int
	Kind   Kind
}

// Tokenize splits text into classified tokens. Whitespace runs act as token
// boundaries and are not returned.
func Tokenize(text string) []Token {
	raw := TokenizeRaw(text)
	tokens := make([]Token, 0, len(raw))
	for _, t := range raw {
		tokens = append(tokens, Token{Text: text[t.Start : t.Start+t.Length], Kind: t.Kind})
	}
	return tokens
}

// TokenizeRaw returns byte-offset triples for every non-whitespace token in
// text. Offsets index into the original string, so callers can slice around
// token boundaries without re-scanning.
func TokenizeRaw(text string) []RawToken {
	var tokens []RawToken
	for _, t := range scan(text) {
		if t.Kind == Whitespace {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// scan walks text rune by rune and emits every token including whitespace.
// Commas and hyphens are always single-character tokens; they never merge
// into an adjacent word.
func scan(text string) []RawToken {
	var tokens []RawToken
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			j := i + size
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			tokens = append(tokens, RawToken{Start: i, Length: j - i, Kind: Whitespace})
			i = j
		case r == ',':
			tokens = append(tokens, RawToken{Start: i, Length: size, Kind: Comma})
			i += size
		case r == '-':
			tokens = append(tokens, RawToken{Start: i, Length: size, Kind: Hyphen})
			i += size
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			j := i + size
			numeric := unicode.IsDigit(r)
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
					break
				}
				if !unicode.IsDigit(r2) {
					numeric = false
				}
				j += s2
			}
			kind := Word
			if numeric {
				kind = Number
			}
			tokens = append(tokens, RawToken{Start: i, Length: j - i, Kind: kind})
			i = j
		default:
			tokens = append(tokens, RawToken{Start: i, Length: size, Kind: Punct})
			i += size
		}
	}
	return tokens
}
