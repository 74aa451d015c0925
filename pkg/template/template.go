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

// Package template implements the mustache-style substitution used by the
// country address templates: {{var}} and {{{var}}} placeholders plus
// {{#helper}}...{{/helper}} sections whose raw inner text is handed to a
// registered helper function. Unmatched placeholders render as empty text.
package template

import (
	"regexp"
	"strings"
)

// HelperFunc receives the raw, unrendered text between a section's open and
// close tags and returns the text to substitute for the whole section.
type HelperFunc func(text string) string

var (
	sectionOpenPattern = regexp.MustCompile(`\{\{#\s*([A-Za-z0-9_]+)\s*\}\}`)
	triplePattern      = regexp.MustCompile(`\{\{\{\s*([A-Za-z0-9_]+)\s*\}\}\}`)
	doublePattern      = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)
)

// Render substitutes bindings into tmpl. Sections whose name matches a
// registered helper are replaced by the helper's return value; sections with
// no matching helper have their bodies rendered in place. An open tag pairs
// only with a close tag carrying the same name; an open tag with no matching
// close is left as literal text.
func Render(tmpl string, bindings map[string]string, helpers map[string]HelperFunc) string {
	var out strings.Builder
	rest := tmpl
	for {
		open := sectionOpenPattern.FindStringSubmatchIndex(rest)
		if open == nil {
			break
		}
		name := rest[open[2]:open[3]]
		closePattern := regexp.MustCompile(`\{\{/\s*` + regexp.QuoteMeta(name) + `\s*\}\}`)
		closeLoc := closePattern.FindStringIndex(rest[open[1]:])
		if closeLoc == nil {
			break
		}
		body := rest[open[1] : open[1]+closeLoc[0]]

		out.WriteString(substitute(rest[:open[0]], bindings))
		if fn, ok := helpers[name]; ok {
			out.WriteString(fn(body))
		} else {
			out.WriteString(substitute(body, bindings))
		}
		rest = rest[open[1]+closeLoc[1]:]
	}
	out.WriteString(substitute(rest, bindings))
	return out.String()
}

func substitute(text string, bindings map[string]string) string {
	replace := func(pattern *regexp.Regexp) func(string) string {
		return func(placeholder string) string {
			name := pattern.FindStringSubmatch(placeholder)[1]
			return bindings[name]
		}
	}
	// Triple braces first so {{{x}}} is never read as {{ {x }}.
	text = triplePattern.ReplaceAllStringFunc(text, replace(triplePattern))
	text = doublePattern.ReplaceAllStringFunc(text, replace(doublePattern))
	return text
}
