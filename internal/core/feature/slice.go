package feature

import (
	"fmt"
	"strings"
)

// SliceKind is one of the three vertical slices a feature can enable.
type SliceKind string

const (
	SliceListing    SliceKind = "Listing"
	SliceForm       SliceKind = "Form"
	SliceSelectList SliceKind = "SelectList"
)

// SliceOrder is the fixed order slices are generated in.
var SliceOrder = []SliceKind{SliceListing, SliceForm, SliceSelectList}

// SliceFlags records which slices a feature enables.
type SliceFlags struct {
	Listing    bool
	Form       bool
	SelectList bool
}

// Enabled returns the enabled slices in generation order.
func (f SliceFlags) Enabled() []SliceKind {
	var out []SliceKind
	for _, k := range SliceOrder {
		if f.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Has reports whether slice k is enabled.
func (f SliceFlags) Has(k SliceKind) bool {
	switch k {
	case SliceListing:
		return f.Listing
	case SliceForm:
		return f.Form
	case SliceSelectList:
		return f.SelectList
	}
	return false
}

// ParseSliceKind accepts a slice name in any case.
func ParseSliceKind(s string) (SliceKind, error) {
	for _, k := range SliceOrder {
		if strings.EqualFold(string(k), strings.ReplaceAll(s, "-", "")) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown slice kind %q (valid: Listing, Form, SelectList)", s)
}
