package clean

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"orderetl/internal/table"
)

// placeholderTokens are the textual null sentinels the feed uses. Matching
// happens after trimming and lowercasing.
var placeholderTokens = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"na":   true,
	"":     true,
}

func isPlaceholder(norm string) bool { return placeholderTokens[norm] }

// diacriticFolder strips combining marks so accent-dropped spellings match
// their Swedish originals ("pa vag" → "på väg", "atersand" → "återsänd").
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return out
}

// AliasSet holds the categorical alias tables. The tables are data, not
// logic: a new synonym is an entry here (or in a YAML override file), never
// a new code path.
type AliasSet struct {
	Region         map[string]string `yaml:"region"`
	Payment        map[string]string `yaml:"payment"`
	CustomerType   map[string]string `yaml:"customer_type"`
	DeliveryStatus map[string]string `yaml:"delivery_status"`
}

// Builtin returns a fresh copy of the built-in alias tables, safe to extend.
func Builtin() *AliasSet {
	return &AliasSet{
		Region: map[string]string{
			"sthlm":      "stockholm",
			"sthml":      "stockholm",
			"gothenburg": "göteborg",
			"gbgb":       "göteborg",
			"gbg":        "göteborg",
			"linkoping":  "linköping",
			"malmo":      "malmö",
			"orebro":     "örebro",
			"vasteras":   "västerås",
			"norr":       "norrland",
		},
		Payment: map[string]string{
			"kort":           "card",
			"kreditkort":     "card",
			"visa":           "card",
			"mastercard":     "card",
			"swish":          "swish",
			"mobilbetalning": "swish",
			"faktura":        "invoice",
		},
		CustomerType: map[string]string{
			"privat":    "private",
			"konsument": "private",
			"b2c":       "private",
			"företag":   "business",
			"firma":     "business",
			"b2b":       "business",
		},
		DeliveryStatus: map[string]string{
			"levererad":       "delivered",
			"mottagen":        "received",
			"skickad":         "sent",
			"under transport": "in_transit",
			"på väg":          "in_transit",
			"retur":           "returned",
			"returnerad":      "returned",
			"återsänd":        "returned",
		},
	}
}

// MergeFile overlays alias entries from a YAML file onto the set. Unknown
// top-level keys are rejected so typos surface instead of silently doing
// nothing.
func (a *AliasSet) MergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read alias file: %w", err)
	}

	var extra AliasSet
	dec := yaml.NewDecoder(strings.NewReader(string(b)))
	dec.KnownFields(true)
	if err := dec.Decode(&extra); err != nil {
		return fmt.Errorf("parse alias file %s: %w", path, err)
	}

	mergeAliases(a.Region, extra.Region)
	mergeAliases(a.Payment, extra.Payment)
	mergeAliases(a.CustomerType, extra.CustomerType)
	mergeAliases(a.DeliveryStatus, extra.DeliveryStatus)
	return nil
}

func mergeAliases(dst, src map[string]string) {
	for k, v := range src {
		dst[strings.ToLower(strings.TrimSpace(k))] = v
	}
}

// remap is the shared categorical remapping contract: normalize to trimmed
// lowercase, look up the alias table (retrying with a diacritic-folded key),
// and resolve misses per vocabulary policy. Closed vocabularies collapse
// unrecognized and missing values to the fallback token; open vocabularies
// pass unrecognized values through in normalized form and treat missing as
// nil.
type remap struct {
	column   string
	aliases  map[string]string
	closed   bool
	fallback string          // fallback token for closed vocabularies
	vocab    map[string]bool // canonical tokens, kept as-is (closed only)
}

func (m remap) stage() func(t *table.Table) error {
	// Folded keys are precomputed; alias tables are small and fixed per run.
	folded := make(map[string]string, len(m.aliases))
	for k, v := range m.aliases {
		folded[foldDiacritics(k)] = v
	}

	return func(t *table.Table) error {
		t.Col(m.column).Update(func(v any) any {
			s, ok := table.AsString(v)
			if !ok {
				return m.missing()
			}
			n := strings.ToLower(strings.TrimSpace(s))
			if isPlaceholder(n) {
				return m.missing()
			}
			if c, ok := m.aliases[n]; ok {
				return c
			}
			if c, ok := folded[foldDiacritics(n)]; ok {
				return c
			}
			if m.closed {
				if m.vocab[n] {
					return n
				}
				return m.fallback
			}
			return n
		})
		return nil
	}
}

func (m remap) missing() any {
	if m.closed {
		return m.fallback
	}
	return nil
}

func vocabSet(tokens ...string) map[string]bool {
	out := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		out[tok] = true
	}
	return out
}

func (a *AliasSet) regionStage() func(*table.Table) error {
	return remap{column: "region", aliases: a.Region}.stage()
}

func (a *AliasSet) paymentStage() func(*table.Table) error {
	return remap{
		column:   "betalmetod",
		aliases:  a.Payment,
		closed:   true,
		fallback: "unknown",
		vocab:    vocabSet("card", "swish", "invoice", "unknown"),
	}.stage()
}

func (a *AliasSet) customerTypeStage() func(*table.Table) error {
	return remap{column: "kundtyp", aliases: a.CustomerType}.stage()
}

func (a *AliasSet) deliveryStatusStage() func(*table.Table) error {
	return remap{
		column:   "leveransstatus",
		aliases:  a.DeliveryStatus,
		closed:   true,
		fallback: "unknown",
		vocab:    vocabSet("delivered", "received", "sent", "in_transit", "returned", "unknown"),
	}.stage()
}
