package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/slicer/internal/core/template"
	"github.com/example/slicer/internal/ports/secondary"
)

func TestTemplateService_Render(t *testing.T) {
	store := &mockTemplateStore{sources: map[string][]template.Source{
		"Controllers/Listing": {
			{RelativePath: "__ComponentPrefix__ListingController.cs_", Content: "namespace {{moduleNamespace}};\r\n{{#if (eq UIFramework \"Bootstrap\")}}bs{{/if}}\r\n"},
		},
	}}
	svc := NewTemplateService(store, template.DefaultOptions(), nil)

	files, err := svc.Render(context.Background(), "Controllers", "Listing", template.Params{
		"ComponentPrefix": "Order",
		"moduleNamespace": "Sales",
		"UIFramework":     "MudBlazor",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"OrderListingController.cs": "namespace Sales;\n\n"}, files)
}

func TestTemplateService_UnsupportedCombinationPassesThrough(t *testing.T) {
	svc := NewTemplateService(&mockTemplateStore{}, template.DefaultOptions(), nil)

	_, err := svc.Render(context.Background(), "ClientShared", "Form", template.Params{})
	require.ErrorIs(t, err, secondary.ErrUnsupportedCombination)
}

func TestTemplateService_PathCollision(t *testing.T) {
	store := &mockTemplateStore{sources: map[string][]template.Source{
		"Controllers/Form": {
			{RelativePath: "__ComponentPrefix__.cs", Content: "a"},
			{RelativePath: "{{ComponentPrefix}}.cs", Content: "b"},
		},
	}}
	svc := NewTemplateService(store, template.DefaultOptions(), nil)

	_, err := svc.Render(context.Background(), "Controllers", "Form", template.Params{"ComponentPrefix": "Order"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render Controllers/Form")
}
