// Package templates provides the closed set of resume templates and their
// HTML renderers.
package templates

import "strings"

// Kind identifies a resume template. The zero value means no template is selected.
type Kind int

// Available templates, in gallery order.
const (
	KindNone Kind = iota
	DoubleColumn
	IvyLeague
	Elegant
	Contemporary
	Polished
	Modern
	Creative
	Timeline
	Stylish
	SingleColumn
)

// Default is the template selected in a fresh session.
const Default = Modern

var ids = [...]string{
	KindNone:     "",
	DoubleColumn: "double-column",
	IvyLeague:    "ivy-league",
	Elegant:      "elegant",
	Contemporary: "contemporary",
	Polished:     "polished",
	Modern:       "modern",
	Creative:     "creative",
	Timeline:     "timeline",
	Stylish:      "stylish",
	SingleColumn: "single-column",
}

// All returns every selectable template in gallery order.
func All() []Kind {
	out := make([]Kind, 0, len(ids)-1)
	for k := DoubleColumn; k <= SingleColumn; k++ {
		out = append(out, k)
	}
	return out
}

// Parse returns the template with identifier id.
func Parse(id string) (Kind, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return KindNone, false
	}
	for k := DoubleColumn; k <= SingleColumn; k++ {
		if ids[k] == id {
			return k, true
		}
	}
	return KindNone, false
}

// Valid reports whether k is one of the selectable templates.
func (k Kind) Valid() bool {
	return k >= DoubleColumn && k <= SingleColumn
}

// String returns the template identifier, or "" for KindNone.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(ids) {
		return ""
	}
	return ids[k]
}

// DisplayName is the gallery caption: the identifier with hyphens as spaces.
func (k Kind) DisplayName() string {
	return strings.ReplaceAll(k.String(), "-", " ")
}

// MarshalText encodes k as its identifier.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes an identifier. Unknown identifiers decode to KindNone
// so a stale saved selection falls back to the placeholder.
func (k *Kind) UnmarshalText(text []byte) error {
	*k, _ = Parse(string(text))
	return nil
}
