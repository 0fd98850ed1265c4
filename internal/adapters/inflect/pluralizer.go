// Package inflect adapts the jinzhu/inflection rule set to the
// secondary.Pluralizer port.
package inflect

import (
	"github.com/jinzhu/inflection"

	"github.com/example/slicer/internal/ports/secondary"
)

// Pluralizer implements secondary.Pluralizer with English rules.
type Pluralizer struct{}

// NewPluralizer creates a new pluralizer.
func NewPluralizer() *Pluralizer {
	return &Pluralizer{}
}

// Pluralize returns the plural of word, keeping its leading case.
func (Pluralizer) Pluralize(word string) string {
	if word == "" {
		return ""
	}
	return inflection.Plural(word)
}

var _ secondary.Pluralizer = Pluralizer{}
