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

// Package rules loads the country template corpus and the component alias
// corpus into immutable, pre-compiled records. A Set is built once at startup
// and read concurrently afterward; nothing mutates it after Parse returns.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v2"
)

//go:embed data/worldwide.yaml
var worldwideYAML []byte

//go:embed data/components.yaml
var componentsYAML []byte

// Rule is a single compiled substitution. Replacement uses Go's $1 group
// reference syntax as written in the rule files.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Record holds one country's formatting rules. In the source YAML a country
// entry is either a bare template string or a mapping with address_template,
// replace, and postformat_replace keys; both shapes resolve to a Record here.
type Record struct {
	Template   string
	Replace    []Rule
	Postformat []Rule
}

// Alias maps a raw input field name to a canonical component name.
type Alias struct {
	From string
	To   string
}

// Set is the full rule corpus: per-country records plus the ordered alias
// table. Records always include a "default" entry.
type Set struct {
	records     map[string]*Record
	aliasOrder  []Alias
	aliasLookup map[string]string
}

// builtinAliases is the fixed OSM-style alias list, checked before any
// aliases contributed by the component corpus. Order matters: the component
// corpus may override an entry for the same raw key.
var builtinAliases = []Alias{
	{"name", "house"},
	{"addr:housename", "house"},
	{"addr:housenumber", "house_number"},
	{"addr:house_number", "house_number"},
	{"addr:street", "road"},
	{"addr:city", "city"},
	{"addr:locality", "city"},
	{"addr:municipality", "city"},
	{"addr:hamlet", "city"},
	{"addr:suburb", "suburb"},
	{"addr:neighbourhood", "suburb"},
	{"addr:neighborhood", "suburb"},
	{"addr:district", "suburb"},
	{"addr:state", "state"},
	{"addr:province", "state"},
	{"addr:region", "state"},
	{"addr:postal_code", "postcode"},
	{"addr:postcode", "postcode"},
	{"addr:country", "country"},
	{"street", "road"},
	{"street_name", "road"},
	{"residential", "road"},
	{"hamlet", "city"},
	{"neighborhood", "suburb"},
	{"neighbourhood", "suburb"},
	{"city_district", "suburb"},
	{"state_code", "state"},
	{"country_name", "country"},
	{"postal_code", "postcode"},
	{"post_code", "postcode"},
}

var postSuburbPattern = regexp.MustCompile(`(?i)city|state|state_district|postcode|country`)

// Load builds a Set from the corpus embedded in the binary.
func Load() (*Set, error) {
	return Parse(worldwideYAML, componentsYAML)
}

// LoadDir builds a Set from a checkout of the address-formatting repository,
// reading conf/countries/worldwide.yaml and conf/components.yaml under dir.
func LoadDir(dir string) (*Set, error) {
	worldwide, err := os.ReadFile(filepath.Join(dir, "conf", "countries", "worldwide.yaml"))
	if err != nil {
		return nil, fmt.Errorf("unable to read worldwide.yaml: %v", err)
	}
	components, err := os.ReadFile(filepath.Join(dir, "conf", "components.yaml"))
	if err != nil {
		return nil, fmt.Errorf("unable to read components.yaml: %v", err)
	}
	return Parse(worldwide, components)
}

// Parse builds and validates a Set from raw corpus bytes. It is an error for
// the corpus to lack a default record; a record with a malformed replacement
// rule keeps its valid rules and logs the bad one.
func Parse(worldwide, components []byte) (*Set, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(worldwide, &raw); err != nil {
		return nil, fmt.Errorf("unable to unmarshal template corpus: %v", err)
	}

	records := make(map[string]*Record, len(raw))
	for code, value := range raw {
		switch v := value.(type) {
		case string:
			records[code] = &Record{Template: addSuburbTags(v)}
		case map[interface{}]interface{}:
			rec := &Record{}
			if t, ok := v["address_template"].(string); ok {
				rec.Template = addSuburbTags(t)
			}
			rec.Replace = compileRules(v["replace"], code, "replace")
			rec.Postformat = compileRules(v["postformat_replace"], code, "postformat_replace")
			records[code] = rec
		default:
			log.Printf("skipping %s: unexpected template entry of type %T", code, value)
		}
	}

	def, ok := records["default"]
	if !ok || def.Template == "" {
		return nil, errors.New("template corpus has no default record")
	}

	// Country entries without their own template text render with the
	// default layout but keep their own replacement rules.
	for code, rec := range records {
		if rec.Template == "" && code != "default" {
			rec.Template = def.Template
		}
	}

	aliasOrder, aliasLookup, err := parseAliases(components)
	if err != nil {
		return nil, err
	}

	return &Set{records: records, aliasOrder: aliasOrder, aliasLookup: aliasLookup}, nil
}

type componentDoc struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

func parseAliases(components []byte) ([]Alias, map[string]string, error) {
	order := make([]Alias, 0, len(builtinAliases))
	lookup := make(map[string]string, len(builtinAliases))
	for _, a := range builtinAliases {
		order = append(order, a)
		lookup[a.From] = a.To
	}

	decoder := yaml.NewDecoder(bytes.NewReader(components))
	for {
		var doc componentDoc
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("unable to unmarshal component corpus: %v", err)
		}
		for _, from := range doc.Aliases {
			if _, seen := lookup[from]; !seen {
				order = append(order, Alias{From: from, To: doc.Name})
			}
			lookup[from] = doc.Name
		}
	}
	return order, lookup, nil
}

func compileRules(value interface{}, code, kind string) []Rule {
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	var rules []Rule
	for _, entry := range list {
		pair, ok := entry.([]interface{})
		if !ok || len(pair) != 2 {
			log.Printf("skipping malformed %s rule for %s: %v", kind, code, entry)
			continue
		}
		pattern := fmt.Sprintf("%v", pair[0])
		replacement := fmt.Sprintf("%v", pair[1])
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			log.Printf("skipping invalid %s rule for %s: %v", kind, code, err)
			continue
		}
		rules = append(rules, Rule{Pattern: compiled, Replacement: replacement})
	}
	return rules
}

// addSuburbTags injects a suburb placeholder line after each road-bearing
// line of templates that never mention a suburb, unless the line already
// carries a post-suburb component (city, state, postcode, country). Runs once
// per template body at load time.
func addSuburbTags(template string) string {
	suburbIncluded := strings.Contains(template, "suburb")
	var lines []string
	for _, line := range strings.Split(template, "\n") {
		lines = append(lines, strings.TrimRight(line, "\r\n"))
		if strings.Contains(line, "road") && !suburbIncluded && !postSuburbPattern.MatchString(line) {
			lines = append(lines, "{{{suburb}}}")
		}
	}
	return strings.Join(lines, "\n")
}

// Record returns the rules for an upper-cased country code.
func (s *Set) Record(code string) (*Record, bool) {
	rec, ok := s.records[code]
	return rec, ok
}

// Default returns the fallback record. Parse guarantees it exists.
func (s *Set) Default() *Record {
	return s.records["default"]
}

// CanonicalName resolves a raw input field name through the alias table.
// Lookups are exact-match only.
func (s *Set) CanonicalName(raw string) (string, bool) {
	name, ok := s.aliasLookup[raw]
	return name, ok
}

// Aliases returns the alias table in load order.
func (s *Set) Aliases() []Alias {
	return s.aliasOrder
}
