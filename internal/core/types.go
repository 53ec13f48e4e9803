// Package core provides core types and errors for the region lookup service.
package core

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind identifies one level of the administrative hierarchy.
type Kind string

const (
	KindProvince Kind = "province"
	KindRegency  Kind = "regency"
	KindDistrict Kind = "district"
	KindVillage  Kind = "village"
)

// Valid reports whether k is a recognized lookup kind.
func (k Kind) Valid() bool {
	switch k {
	case KindProvince, KindRegency, KindDistrict, KindVillage:
		return true
	}
	return false
}

// RequiresParent reports whether lookups of this kind need a parent code.
// Provinces are the hierarchy root and take none.
func (k Kind) RequiresParent() bool {
	return k != KindProvince
}

// String returns the kind as a plain string.
func (k Kind) String() string { return string(k) }

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown lookup kind: %q", s)
	}
	return k, nil
}

// Region is a single entry of the administrative hierarchy.
// Code is unique within its parent scope, not globally.
// Regions are immutable once resolved; callers receive copies.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// KeyNamespace prefixes every record this service writes to durable storage.
const KeyNamespace = "region:v1:"

// Key identifies one cached lookup result. Two keys are equal iff kind and
// parent code match exactly; this equality defines cache identity.
type Key struct {
	Kind       Kind
	ParentCode string
}

// String renders the namespaced storage key, e.g. "region:v1:regency:32".
func (k Key) String() string {
	if k.ParentCode == "" {
		return KeyNamespace + string(k.Kind)
	}
	return KeyNamespace + string(k.Kind) + ":" + k.ParentCode
}

// NormalizeName converts all-uppercase upstream names to title case
// ("JAWA BARAT" -> "Jawa Barat"). Mixed-case names pass through untouched so
// sources that already deliver readable names are not mangled.
func NormalizeName(name string) string {
	if name == "" || name != strings.ToUpper(name) {
		return name
	}
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		for j, c := range r {
			if unicode.IsLetter(c) {
				r[j] = unicode.ToUpper(c)
				break
			}
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// CloneRegions returns an independent copy of rs. The cache is the sole
// long-lived owner of resolved data; everything handed to callers is a copy.
func CloneRegions(rs []Region) []Region {
	if rs == nil {
		return nil
	}
	out := make([]Region, len(rs))
	copy(out, rs)
	return out
}
