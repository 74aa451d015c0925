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

// Package formatter renders structured address components into a single
// display string laid out by country-specific templates.
package formatter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/TFMV/AddressForge/pkg/rules"
	"github.com/TFMV/AddressForge/pkg/template"
)

// Canonical component names.
const (
	House         = "house"
	HouseNumber   = "house_number"
	Road          = "road"
	Suburb        = "suburb"
	City          = "city"
	State         = "state"
	StateDistrict = "state_district"
	Postcode      = "postcode"
	Country       = "country"
)

const (
	separatorTag      = "SEP"
	fieldSeparatorTag = "FSEP"
	defaultSplitter   = " | "
)

// minimalComponentKeys lists the component pairs of which at least one must
// be fully present for formatting to produce a result.
var minimalComponentKeys = [][2]string{
	{Road, HouseNumber},
	{Road, House},
	{Road, Postcode},
}

var whitespaceComponentPattern = regexp.MustCompile(`[\r\n]+[\s\r\n]*`)

// Formatter formats component sets against a rule corpus. It is immutable
// after construction and safe for concurrent use.
type Formatter struct {
	rules    *rules.Set
	splitter string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithSplitter overrides the string joining rendered address lines.
func WithSplitter(splitter string) Option {
	return func(f *Formatter) {
		f.splitter = splitter
	}
}

// New creates a Formatter over an already-loaded rule set.
func New(set *rules.Set, opts ...Option) *Formatter {
	f := &Formatter{rules: set, splitter: defaultSplitter}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Options are the per-call switches of FormatAddress.
type Options struct {
	MinimalOnly      bool
	TagComponents    bool
	NormalizeAliases bool
}

// DefaultOptions enables every switch, matching the usual pipeline call.
func DefaultOptions() Options {
	return Options{MinimalOnly: true, TagComponents: true, NormalizeAliases: true}
}

// FormatAddress renders components into a display string for the given
// country code, falling back to the default template for unknown codes. The
// second return value is false when the inputs cannot be formatted: the
// minimal-components gate failed or every rendered line came out blank. The
// caller's map is never modified.
func (f *Formatter) FormatAddress(country string, components map[string]string, opts Options) (string, bool) {
	rec, ok := f.rules.Record(strings.ToUpper(country))
	if !ok {
		rec = f.rules.Default()
	}
	templateText := rec.Template

	comps := make(map[string]string, len(components))
	for k, v := range components {
		comps[k] = v
	}

	if opts.NormalizeAliases {
		f.replaceAliases(comps)
	}

	if opts.MinimalOnly && !minimalComponents(comps) {
		return "", false
	}

	applyReplacements(rec, comps)

	if opts.TagComponents {
		templateText = tagTemplateSeparators(templateText)
		comps = tagComponents(comps)
	}

	text := f.renderTemplate(templateText, comps, opts.TagComponents)
	text = f.postReplacements(rec, text)
	if text == "" {
		return "", false
	}
	return text, true
}

// replaceAliases renames raw keys to their canonical component names. A raw
// key whose canonical name is already populated is dropped; a raw key with no
// alias stays as-is and simply never matches a placeholder.
func (f *Formatter) replaceAliases(components map[string]string) {
	keys := make([]string, 0, len(components))
	for k := range components {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		canonical, ok := f.rules.CanonicalName(k)
		if !ok {
			continue
		}
		if _, exists := components[canonical]; exists {
			delete(components, k)
			continue
		}
		components[canonical] = components[k]
		delete(components, k)
	}
}

func minimalComponents(components map[string]string) bool {
	for _, pair := range minimalComponentKeys {
		if _, ok := components[pair[0]]; !ok {
			continue
		}
		if _, ok := components[pair[1]]; ok {
			return true
		}
	}
	return false
}

// applyReplacements runs the record's replace rules, in order, over every
// component value. Later rules see the output of earlier ones.
func applyReplacements(rec *rules.Record, components map[string]string) {
	if len(rec.Replace) == 0 {
		return
	}
	for k, v := range components {
		for _, rule := range rec.Replace {
			v = rule.Pattern.ReplaceAllString(v, rule.Replacement)
		}
		components[k] = v
	}
}

func (f *Formatter) renderTemplate(templateText string, components map[string]string, tagged bool) string {
	helpers := map[string]template.HelperFunc{
		"first": func(text string) string {
			rendered := template.Render(text, components, nil)
			for _, part := range strings.Split(rendered, "||") {
				if s := strings.TrimSpace(part); s != "" {
					return s
				}
			}
			return ""
		},
	}

	output := strings.TrimSpace(template.Render(templateText, components, helpers))
	values := whitespaceComponentPattern.Split(output, -1)

	splitter := f.splitter
	if tagged {
		splitter = fmt.Sprintf(" %s/%s ", strings.TrimSpace(f.splitter), fieldSeparatorTag)
	}

	kept := make([]string, 0, len(values))
	for _, value := range values {
		value = stripComponent(value, tagged)
		if strings.TrimSpace(value) == "" {
			continue
		}
		kept = append(kept, value)
	}
	return strings.Join(kept, splitter)
}

// postReplacements deduplicates rendered lines, keeping first occurrences,
// then applies the record's postformat rules to the whole text.
func (f *Formatter) postReplacements(rec *rules.Record, text string) string {
	seen := make(map[string]bool)
	var parts []string
	for _, part := range strings.Split(text, f.splitter) {
		part = strings.TrimSpace(part)
		if seen[part] {
			continue
		}
		seen[part] = true
		parts = append(parts, part)
	}
	text = strings.Join(parts, f.splitter)

	for _, rule := range rec.Postformat {
		text = rule.Pattern.ReplaceAllString(text, rule.Replacement)
	}
	return text
}
