package feature

import (
	"strings"

	"github.com/example/slicer/internal/core/template"
)

// Default injection markers.
const (
	RegistrationMarker       = "//##ServerDataService##"
	ClientRegistrationMarker = "//##ClientDataService##"
	NavigationMarker         = "@* ##MenuItem## *@"
)

// Side selects which data service implementation a registration binds.
type Side string

const (
	SideServer Side = "Server"
	SideClient Side = "Client"
)

const (
	paramSlice = "Slice"
	paramSide  = "Side"
)

const registrationHeader = `// {{ComponentPrefix}}`

const registrationLine = `services.AddScoped<ServiceContracts.Features.{{moduleNamespace}}.I{{ComponentPrefix}}{{Slice}}DataService, ` +
	`Features.{{moduleNamespace}}.{{ComponentPrefix}}{{Slice}}{{Side}}DataService>();`

const navigationSnippet = `
{{#if (eq UIFramework "Bootstrap")}}
<div class="nav-item px-3">
    <NavLink class="nav-link" href="{{componentPrefixPlural}}">
        <span class="bi bi-list-nested-nav-menu" aria-hidden="true"></span> {{ComponentPrefix}}
    </NavLink>
</div>
{{/if}}
{{#if (eq UIFramework "FluentUI")}}
<FluentNavLink Href="{{componentPrefixPlural}}" Icon="@(new Icons.Regular.Size20.NumberSymbolSquare())" IconColor="Color.Accent">{{ComponentPrefix}}</FluentNavLink>
{{/if}}
{{#if (eq UIFramework "MudBlazor")}}
<MudNavLink Href="{{componentPrefixPlural}}" Icon="@Icons.Material.Filled.Inventory">
    {{ComponentPrefix}}
</MudNavLink>
{{/if}}
{{#if (eq UIFramework "Radzen")}}
<RadzenPanelMenuItem Text="{{ComponentPrefix}}" Path="{{componentPrefixPlural}}" Icon="inventory" />
{{/if}}
{{#if (eq UIFramework "TailwindCSS")}}
<a href="/{{componentPrefixPlural}}" class="group flex items-center px-4 py-3 text-sm font-medium rounded-lg">
    <p class="font-medium">{{ComponentPrefix}}</p>
</a>
{{/if}}
`

// RegistrationLines renders the service registration block for a feature:
// a comment naming the prefix, then one registration per enabled slice.
func RegistrationLines(params template.Params, slices []SliceKind, side Side) []string {
	opts := template.Options{LineEnding: template.LF}
	lines := []string{template.Text(registrationHeader, params, opts)}
	for _, k := range slices {
		sliceParams := params.Merge(nil)
		sliceParams[paramSlice] = string(k)
		sliceParams[paramSide] = string(side)
		lines = append(lines, template.Text(registrationLine, sliceParams, opts))
	}
	return lines
}

// NavigationLines renders the navigation entry for a feature. Only the block
// matching the UIFramework parameter survives; blank edges are trimmed.
func NavigationLines(params template.Params) []string {
	text := template.Text(navigationSnippet, params, template.Options{LineEnding: template.LF})
	return trimBlankEdges(strings.Split(text, "\n"))
}

// NeedsNavigation reports whether a feature gets a navigation entry.
func NeedsNavigation(flags SliceFlags) bool {
	return flags.Listing
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	var out []string
	for _, l := range lines[start:end] {
		// Dropped blocks leave runs of empty lines behind.
		if strings.TrimSpace(l) == "" && len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}
