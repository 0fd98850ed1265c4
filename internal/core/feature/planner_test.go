package feature

import (
	"path/filepath"
	"testing"

	"github.com/example/slicer/internal/core/effects"
)

func TestGenerateCreatePlan(t *testing.T) {
	input := CreatePlanInput{
		FeatureID:     7,
		BasePath:      "/src/acme",
		DirectoryName: "Orders",
		Projects: []ProjectInput{
			{Category: "ServiceContracts", Path: "Platform/ServiceContracts/Features", Namespace: "Acme.Contracts"},
			{Category: "HybridApp", Path: "HybridApp"},
			{Category: "UILibrary", Path: "Platform/Razor/Features", Namespace: "Acme.Razor"},
		},
		Slices: []SliceKind{SliceListing, SliceForm},
		Groups: DefaultGroups(),
		Rendered: map[RenderKey]map[string]string{
			{Group: "ServiceContracts", Slice: SliceListing}: {"IOrderListingDataService.cs": "a", "OrderListingBusinessObject.cs": "bb"},
			{Group: "ServiceContracts", Slice: SliceForm}:    {"IOrderFormDataService.cs": "ccc"},
			{Group: "RazorComponents", Slice: SliceListing}:  {"OrderListing.razor": "dddd"},
		},
	}

	plan := GenerateCreatePlan(input)

	if len(plan.Projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(plan.Projects))
	}
	if want := filepath.Join("/src/acme", "Platform", "ServiceContracts", "Features", "Orders"); plan.Projects[0].OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", plan.Projects[0].OutputDir, want)
	}
	if len(plan.Files) != 4 {
		t.Fatalf("files = %d, want 4", len(plan.Files))
	}
	// Listing before Form, then sorted paths within a slice.
	wantRel := []string{"IOrderListingDataService.cs", "OrderListingBusinessObject.cs", "IOrderFormDataService.cs", "OrderListing.razor"}
	for i, rel := range wantRel {
		if plan.Files[i].RelativePath != rel {
			t.Errorf("Files[%d] = %s, want %s", i, plan.Files[i].RelativePath, rel)
		}
	}
	if plan.Files[1].Size() != 2 {
		t.Errorf("Size() = %d, want 2", plan.Files[1].Size())
	}

	// HybridApp has no group; RazorComponents has no Form templates.
	if len(plan.Skipped) != 2 {
		t.Errorf("skipped = %+v, want 2 entries", plan.Skipped)
	}

	effs := plan.Effects()
	if len(effs) != 2+4*2+2 {
		t.Fatalf("effects = %d, want 12", len(effs))
	}
	if p, ok := effs[0].(effects.PersistEffect); !ok || p.Entity != EntityProject {
		t.Errorf("effects[0] = %#v, want project record", effs[0])
	}
	if f, ok := effs[1].(effects.FileEffect); !ok || f.Operation != "write" {
		t.Errorf("effects[1] = %#v, want file write", effs[1])
	}
	if p, ok := effs[2].(effects.PersistEffect); !ok || p.Entity != EntityFile {
		t.Errorf("effects[2] = %#v, want file record", effs[2])
	}
	// The HybridApp notice sits between the first project's files and the next project.
	if l, ok := effs[7].(effects.LogEffect); !ok || l.Message != "template group skipped" || l.Fields["category"] != "HybridApp" {
		t.Errorf("effects[7] = %#v, want skip notice for HybridApp", effs[7])
	}
	if l, ok := effs[11].(effects.LogEffect); !ok || l.Fields["slice"] != "Form" {
		t.Errorf("effects[11] = %#v, want skip notice for Form", effs[11])
	}
}

func TestGenerateInjectionPlan(t *testing.T) {
	params := BuildParams(ParamInput{ComponentPrefix: "Order", ModuleNamespace: "Sales", UIFramework: "Bootstrap"}, plural)
	targets := []InjectionTarget{
		{Kind: InjectRegistration, File: "Extensions/FeaturesRegistrationExt.cs", Marker: RegistrationMarker},
		{Kind: InjectNavigation, File: "Components/Layout/NavMenu.razor", Marker: NavigationMarker},
		{Kind: InjectRegistration, File: "", Marker: ClientRegistrationMarker},
	}

	t.Run("with listing", func(t *testing.T) {
		effs := GenerateInjectionPlan(InjectionPlanInput{BasePath: "/b", Params: params, Flags: SliceFlags{Listing: true}, Targets: targets})
		if len(effs) != 2 {
			t.Fatalf("effects = %d, want 2", len(effs))
		}
		reg := effs[0].(effects.InjectEffect)
		if reg.Kind != InjectRegistration || reg.TargetFile != filepath.Join("/b", "Extensions", "FeaturesRegistrationExt.cs") {
			t.Errorf("registration effect = %+v", reg)
		}
		if nav := effs[1].(effects.InjectEffect); nav.Kind != InjectNavigation || nav.Marker != NavigationMarker {
			t.Errorf("navigation effect = %+v", nav)
		}
	})

	t.Run("without listing", func(t *testing.T) {
		effs := GenerateInjectionPlan(InjectionPlanInput{BasePath: "/b", Params: params, Flags: SliceFlags{Form: true}, Targets: targets})
		if len(effs) != 2 {
			t.Fatalf("effects = %d, want 2", len(effs))
		}
		if effs[0].(effects.InjectEffect).Kind != InjectRegistration {
			t.Errorf("unexpected effect %+v", effs[0])
		}
		if l, ok := effs[1].(effects.LogEffect); !ok || l.Message != "navigation skipped: feature has no listing" {
			t.Errorf("effects[1] = %#v, want navigation notice", effs[1])
		}
	})
}
