package feature

import "strings"

// Project categories understood by the default template catalog.
const (
	CategoryServiceContracts   = "ServiceContracts"
	CategoryServerSideServices = "ServerSideServices"
	CategoryControllers        = "Controllers"
	CategoryUILibrary          = "UILibrary"
	CategoryClientShared       = "ClientShared"
)

// GroupMap maps a project category to the template group rendered for it.
type GroupMap map[string]string

// DefaultGroups returns the built-in category to template group mapping.
func DefaultGroups() GroupMap {
	return GroupMap{
		CategoryServiceContracts:   "ServiceContracts",
		CategoryServerSideServices: "ServerSideServices",
		CategoryControllers:        "Controllers",
		CategoryUILibrary:          "RazorComponents",
		CategoryClientShared:       "ClientShared",
	}
}

// Resolve returns the template group for category. Lookup ignores case.
// The second result is false when the category has no templates.
func (g GroupMap) Resolve(category string) (string, bool) {
	if group, ok := g[category]; ok {
		return group, true
	}
	for k, group := range g {
		if strings.EqualFold(k, category) {
			return group, true
		}
	}
	return "", false
}
