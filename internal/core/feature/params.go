package feature

import (
	"strings"

	"github.com/example/slicer/internal/core/template"
)

// Parameter keys available to every template.
const (
	ParamComponentPrefix       = "ComponentPrefix"
	ParamComponentPrefixLower  = "componentPrefix"
	ParamComponentPrefixPlural = "ComponentPrefixPlural"
	ParamComponentPluralLower  = "componentPrefixPlural"
	ParamModuleNamespace       = "moduleNamespace"
	ParamProjectNamespace      = "projectNamespace"
	ParamPrimaryKeyType        = "primaryKeyType"
	ParamUIFramework           = "UIFramework"
	ParamSelectListModelType   = "selectListModelType"
	ParamSelectListDataType    = "selectListDataType"
)

// Defaults applied when a request leaves a token empty.
const (
	DefaultUIFramework         = "Bootstrap"
	DefaultSelectListModelType = "SelectOption"
	DefaultSelectListDataType  = "string"
)

// ParamInput is everything needed to build one generation's parameter set.
type ParamInput struct {
	ComponentPrefix     string
	ModuleNamespace     string
	ProjectNamespace    string
	PrimaryKeyType      string
	UIFramework         string
	SelectListModelType string
	SelectListDataType  string
	Extra               map[string]string
}

// BuildParams builds the parameter set shared by every template of one
// operation. Extra keys never override the built-in ones. UIFramework is
// omitted when empty so framework blocks all drop out.
func BuildParams(in ParamInput, pluralize func(string) string) template.Params {
	plural := pluralize(in.ComponentPrefix)

	p := template.Params{
		ParamComponentPrefix:       in.ComponentPrefix,
		ParamComponentPrefixLower:  strings.ToLower(in.ComponentPrefix),
		ParamComponentPrefixPlural: plural,
		ParamComponentPluralLower:  strings.ToLower(plural),
		ParamModuleNamespace:       in.ModuleNamespace,
		ParamProjectNamespace:      in.ProjectNamespace,
		ParamPrimaryKeyType:        in.PrimaryKeyType,
		ParamSelectListModelType:   orDefault(in.SelectListModelType, DefaultSelectListModelType),
		ParamSelectListDataType:    orDefault(in.SelectListDataType, DefaultSelectListDataType),
	}
	if in.UIFramework != "" {
		p[ParamUIFramework] = in.UIFramework
	}
	return p.Merge(in.Extra)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
