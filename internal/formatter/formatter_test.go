package formatter

import (
	"strings"
	"testing"

	"github.com/TFMV/AddressForge/pkg/rules"
)

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	set, err := rules.Load()
	if err != nil {
		t.Fatalf("failed to load embedded rule corpus: %v", err)
	}
	return New(set)
}

func untaggedOptions() Options {
	return Options{MinimalOnly: true, TagComponents: false, NormalizeAliases: true}
}

func TestFormatAddressSpain(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"house_number": "2",
		"street":       "Calle de la Unión",
		"city":         "Madrid",
		"postcode":     "28013",
	}

	got, ok := f.FormatAddress("es", components, untaggedOptions())
	if !ok {
		t.Fatal("expected a result for a road/house_number pair")
	}
	expected := "Calle de la Unión, 2 | 28013 Madrid"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestFormatAddressDoesNotMutateInput(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"street":       "Calle de la Unión",
		"house_number": "2",
	}

	if _, ok := f.FormatAddress("es", components, untaggedOptions()); !ok {
		t.Fatal("expected a result")
	}
	if _, exists := components["road"]; exists {
		t.Error("caller map gained a canonical key")
	}
	if components["street"] != "Calle de la Unión" {
		t.Error("caller map lost its raw key")
	}
}

func TestMinimalComponentsGate(t *testing.T) {
	f := newTestFormatter(t)
	for _, country := range []string{"es", "us", "de", "zz", ""} {
		if _, ok := f.FormatAddress(country, map[string]string{"city": "Paris"}, untaggedOptions()); ok {
			t.Errorf("country %q: expected no result for a lone city", country)
		}
	}

	// The same input formats once the gate is off.
	opts := untaggedOptions()
	opts.MinimalOnly = false
	got, ok := f.FormatAddress("fr", map[string]string{"city": "Paris"}, opts)
	if !ok || got != "Paris" {
		t.Errorf("expected ungated result %q, got %q (ok=%v)", "Paris", got, ok)
	}
}

func TestMinimalComponentsPairs(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]string
		expected   bool
	}{
		{"road and house_number", map[string]string{Road: "a", HouseNumber: "1"}, true},
		{"road and house", map[string]string{Road: "a", House: "b"}, true},
		{"road and postcode", map[string]string{Road: "a", Postcode: "1"}, true},
		{"road alone", map[string]string{Road: "a"}, false},
		{"house_number alone", map[string]string{HouseNumber: "1"}, false},
		{"city and postcode", map[string]string{City: "a", Postcode: "1"}, false},
		{"empty", map[string]string{}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := minimalComponents(test.components); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestUnknownCountryFallsBackToDefault(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"road":         "Main St",
		"house_number": "4",
		"city":         "Springfield",
		"postcode":     "62704",
	}

	got, ok := f.FormatAddress("ZZ", components, untaggedOptions())
	if !ok {
		t.Fatal("expected default-template result for unknown country")
	}
	expected := "Main St 4 | 62704 Springfield"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestAliasKeptWhenCanonicalAlreadyPresent(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"road":         "Main St",
		"street":       "Other St",
		"house_number": "1",
	}

	got, ok := f.FormatAddress("ZZ", components, untaggedOptions())
	if !ok {
		t.Fatal("expected a result")
	}
	if !strings.Contains(got, "Main St") || strings.Contains(got, "Other St") {
		t.Errorf("expected the populated canonical key to win, got %q", got)
	}
}

func TestReplaceAndPostformatRules(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"house_number": "301",
		"road":         "Elm Avenue",
		"city":         "Springfield",
		"state":        "IL",
		"postcode":     "62704-1234",
	}

	got, ok := f.FormatAddress("US", components, untaggedOptions())
	if !ok {
		t.Fatal("expected a result")
	}
	expected := "301 Elm Ave | Springfield, IL 62704"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestFirstHelperFallsThroughBlankAlternatives(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"road":         "Downing St",
		"house_number": "10",
		"state":        "Greater London",
		"postcode":     "SW1A 2AA",
	}

	got, ok := f.FormatAddress("GB", components, untaggedOptions())
	if !ok {
		t.Fatal("expected a result")
	}
	expected := "10 Downing St | Greater London | SW1A 2AA"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestSuburbSurfacesAfterRoadLine(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"road":         "Gran Vía",
		"house_number": "31",
		"suburb":       "Centro",
		"city":         "Madrid",
		"postcode":     "28013",
	}

	// The raw ES template has no suburb placeholder; the loader injects one
	// directly after the road line.
	got, ok := f.FormatAddress("ES", components, untaggedOptions())
	if !ok {
		t.Fatal("expected a result")
	}
	expected := "Gran Vía, 31 | Centro | 28013 Madrid"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestTaggedRenderRoundTrip(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"house_number": "2",
		"street":       "Calle de la Unión",
		"city":         "Madrid",
		"postcode":     "28013",
	}

	untagged, ok := f.FormatAddress("es", components, untaggedOptions())
	if !ok {
		t.Fatal("expected untagged result")
	}
	tagged, ok := f.FormatAddress("es", components, DefaultOptions())
	if !ok {
		t.Fatal("expected tagged result")
	}

	for _, tok := range strings.Fields(tagged) {
		if !strings.Contains(tok, "/") {
			t.Fatalf("tagged output contains unlabelled token %q", tok)
		}
	}

	var untokenized []string
	for _, tok := range strings.Fields(tagged) {
		untokenized = append(untokenized, tok[:strings.LastIndex(tok, "/")])
	}
	got := strings.Join(untokenized, " ")

	normalize := func(s string) string {
		s = strings.ReplaceAll(s, ",", " , ")
		return strings.Join(strings.Fields(s), " ")
	}
	if normalize(got) != normalize(untagged) {
		t.Errorf("round trip mismatch:\n  tagged:   %q\n  untagged: %q", normalize(got), normalize(untagged))
	}
}

func TestTaggedOutputProvenance(t *testing.T) {
	f := newTestFormatter(t)
	components := map[string]string{
		"road":         "Rua do Carmo",
		"house_number": "6",
		"city":         "Salvador",
	}

	got, ok := f.FormatAddress("BR", components, DefaultOptions())
	if !ok {
		t.Fatal("expected a result")
	}
	if !strings.Contains(got, "Rua/road") || !strings.Contains(got, "6/house_number") {
		t.Errorf("expected component provenance labels, got %q", got)
	}
	if !strings.Contains(got, "|/FSEP") {
		t.Errorf("expected tagged field separator, got %q", got)
	}
	if strings.HasSuffix(got, "/SEP") {
		t.Errorf("trailing template separator not stripped: %q", got)
	}
}

func TestPostReplacementsDedupIdempotent(t *testing.T) {
	f := newTestFormatter(t)
	rec := &rules.Record{}

	once := f.postReplacements(rec, "Madrid | Madrid | 28013")
	if once != "Madrid | 28013" {
		t.Fatalf("expected deduplicated text, got %q", once)
	}
	twice := f.postReplacements(rec, once)
	if twice != once {
		t.Errorf("dedup not idempotent: %q vs %q", once, twice)
	}
}

func TestWithSplitter(t *testing.T) {
	set, err := rules.Load()
	if err != nil {
		t.Fatalf("failed to load embedded rule corpus: %v", err)
	}
	f := New(set, WithSplitter(", "))

	got, ok := f.FormatAddress("es", map[string]string{
		"road":         "Calle Mayor",
		"house_number": "1",
		"city":         "Madrid",
	}, untaggedOptions())
	if !ok {
		t.Fatal("expected a result")
	}
	expected := "Calle Mayor, 1, Madrid"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
