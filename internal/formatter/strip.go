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

package formatter

import (
	"regexp"
	"strings"

	"github.com/TFMV/AddressForge/pkg/tokenize"
)

var (
	placeholderCommaPattern  = regexp.MustCompile(`\},`)
	placeholderHyphenPattern = regexp.MustCompile(`\}-`)
	spacedHyphenPattern      = regexp.MustCompile(` - `)
)

// tagTemplateSeparators rewrites template punctuation that belongs to the
// template itself, not to any component, into standalone tokens labelled with
// the separator tag. The placeholder text is left intact. Applied to a
// per-call copy of the template; the stored template never changes.
func tagTemplateSeparators(templateText string) string {
	templateText = placeholderCommaPattern.ReplaceAllString(templateText, "} ,/"+separatorTag+" ")
	templateText = placeholderHyphenPattern.ReplaceAllString(templateText, "} -/"+separatorTag+" ")
	templateText = spacedHyphenPattern.ReplaceAllString(templateText, " -/"+separatorTag+" ")
	return templateText
}

// tagComponents rewrites every component value as space-joined token/name
// pairs so each token of the rendered output can be traced back to the
// component it came from.
func tagComponents(components map[string]string) map[string]string {
	tagged := make(map[string]string, len(components))
	for name, value := range components {
		label := strings.ReplaceAll(name, " ", "_")
		tokens := tokenize.Tokenize(value)
		parts := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			parts = append(parts, strings.ReplaceAll(tok.Text, " ", "")+"/"+label)
		}
		tagged[name] = strings.Join(parts, " ")
	}
	return tagged
}

// stripComponent trims dangling comma and hyphen tokens from both ends of a
// rendered line, leaving interior punctuation alone. In tagged mode the line
// is a sequence of token/label words and trimming skips separator-labelled
// tokens instead.
func stripComponent(value string, tagged bool) string {
	if !tagged {
		tokens := tokenize.TokenizeRaw(value)
		if len(tokens) == 0 {
			return ""
		}

		start, end := 0, 0
		for _, t := range tokens {
			start = t.Start
			if t.Kind != tokenize.Comma && t.Kind != tokenize.Hyphen {
				break
			}
			start = t.Start + t.Length
		}
		for i := len(tokens) - 1; i >= 0; i-- {
			t := tokens[i]
			end = t.Start + t.Length
			if t.Kind != tokenize.Comma && t.Kind != tokenize.Hyphen {
				break
			}
			end = t.Start
		}

		if start >= end {
			return ""
		}
		return value[start:end]
	}

	tokens := strings.Fields(value)
	n := len(tokens)
	start, end := 0, 0
	for i, t := range tokens {
		start = i
		if tagLabel(t) != separatorTag {
			break
		}
		start = i + 1
	}
	for j := 0; j < n; j++ {
		end = n - j
		if tagLabel(tokens[n-1-j]) != separatorTag {
			break
		}
		end = n - j - 1
	}

	if start >= end {
		return ""
	}
	return strings.Join(tokens[start:end], " ")
}

// tagLabel returns the text after the last slash of a tagged token.
func tagLabel(token string) string {
	i := strings.LastIndex(token, "/")
	if i < 0 {
		return ""
	}
	return token[i+1:]
}
