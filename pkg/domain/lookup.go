package domain

import (
	"maps"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// LookupTable maps a picked display value (e.g. a brand name) to the fragment
// used to build a dependent resource identifier (e.g. a codename).
// A missing entry is a data-configuration gap, never a reason to fall back.
//
// Keys and looked-up values are compared in Unicode NFC form, so "Xpéria"
// and "Xpéria" name the same entry.
type LookupTable map[string]string

// Lookup returns the fragment for value and whether it exists.
func (t LookupTable) Lookup(value string) (string, bool) {
	if t == nil {
		return "", false
	}
	value = norm.NFC.String(value)
	if fragment, ok := t[value]; ok {
		return fragment, true
	}
	for key, fragment := range t {
		if !norm.NFC.IsNormalString(key) && norm.NFC.String(key) == value {
			return fragment, true
		}
	}
	return "", false
}

// collisions returns the groups of distinct keys that share an NFC form,
// each group sorted, in the order of their normalized key.
func (t LookupTable) collisions() [][]string {
	groups := make(map[string][]string)
	for key := range t {
		nfc := norm.NFC.String(key)
		groups[nfc] = append(groups[nfc], key)
	}
	var out [][]string
	for _, nfc := range slices.Sorted(maps.Keys(groups)) {
		if keys := groups[nfc]; len(keys) > 1 {
			slices.Sort(keys)
			out = append(out, keys)
		}
	}
	return out
}
