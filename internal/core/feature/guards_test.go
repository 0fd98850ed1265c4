package feature

import "testing"

func TestCanCreateFeature(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateFeatureContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "valid request",
			ctx: CreateFeatureContext{
				ComponentPrefix: "Order",
				ModuleNamespace: "Sales",
				DirectoryName:   "Orders",
				Slices:          []SliceKind{SliceListing},
				Categories:      []string{"ServiceContracts", "UILibrary"},
			},
			wantAllowed: true,
		},
		{
			name:        "missing prefix",
			ctx:         CreateFeatureContext{ModuleNamespace: "Sales", Slices: []SliceKind{SliceForm}},
			wantAllowed: false,
			wantReason:  "component prefix is required",
		},
		{
			name:        "missing module",
			ctx:         CreateFeatureContext{ComponentPrefix: "Order", Slices: []SliceKind{SliceForm}},
			wantAllowed: false,
			wantReason:  "module namespace is required",
		},
		{
			name: "nested directory",
			ctx: CreateFeatureContext{
				ComponentPrefix: "Order",
				ModuleNamespace: "Sales",
				DirectoryName:   "a/b",
				Slices:          []SliceKind{SliceForm},
			},
			wantAllowed: false,
			wantReason:  `directory name "a/b" must be a single path element`,
		},
		{
			name:        "no slices",
			ctx:         CreateFeatureContext{ComponentPrefix: "Order", ModuleNamespace: "Sales"},
			wantAllowed: false,
			wantReason:  "at least one slice kind (listing, form, select-list) must be enabled",
		},
		{
			name: "duplicate category",
			ctx: CreateFeatureContext{
				ComponentPrefix: "Order",
				ModuleNamespace: "Sales",
				Slices:          []SliceKind{SliceForm},
				Categories:      []string{"UILibrary", "uilibrary"},
			},
			wantAllowed: false,
			wantReason:  "project category uilibrary listed more than once",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateFeature(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if (result.Error() == nil) != tt.wantAllowed {
				t.Errorf("Error() = %v, want nil only when allowed", result.Error())
			}
		})
	}
}

func TestCanRegenerateFeature(t *testing.T) {
	tests := []struct {
		name        string
		ctx         RegenerateFeatureContext
		wantAllowed bool
	}{
		{"exists with projects", RegenerateFeatureContext{FeatureID: 1, FeatureExists: true, Slices: []SliceKind{SliceForm}, Categories: []string{"UILibrary"}}, true},
		{"not found", RegenerateFeatureContext{FeatureID: 1}, false},
		{"no slices", RegenerateFeatureContext{FeatureID: 1, FeatureExists: true, Categories: []string{"UILibrary"}}, false},
		{"no projects", RegenerateFeatureContext{FeatureID: 1, FeatureExists: true, Slices: []SliceKind{SliceForm}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRegenerateFeature(tt.ctx).Allowed; got != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", got, tt.wantAllowed)
			}
		})
	}
}

func TestCanDeleteFeature(t *testing.T) {
	if !CanDeleteFeature(DeleteFeatureContext{FeatureID: 3, FeatureExists: true}).Allowed {
		t.Error("expected existing feature to be deletable")
	}
	result := CanDeleteFeature(DeleteFeatureContext{FeatureID: 3})
	if result.Allowed || result.Reason != "feature 3 not found" {
		t.Errorf("got %+v", result)
	}
}

func TestSliceFlags_EnabledOrder(t *testing.T) {
	got := SliceFlags{SelectList: true, Form: true, Listing: true}.Enabled()
	want := []SliceKind{SliceListing, SliceForm, SliceSelectList}
	if len(got) != len(want) {
		t.Fatalf("Enabled() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Enabled()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseSliceKind(t *testing.T) {
	for in, want := range map[string]SliceKind{"listing": SliceListing, "Form": SliceForm, "select-list": SliceSelectList} {
		got, err := ParseSliceKind(in)
		if err != nil || got != want {
			t.Errorf("ParseSliceKind(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseSliceKind("grid"); err == nil {
		t.Error("expected error for unknown slice")
	}
}

func TestGroupMap_Resolve(t *testing.T) {
	g := DefaultGroups()
	if group, ok := g.Resolve("UILibrary"); !ok || group != "RazorComponents" {
		t.Errorf("Resolve(UILibrary) = %q, %v", group, ok)
	}
	if group, ok := g.Resolve("clientshared"); !ok || group != "ClientShared" {
		t.Errorf("Resolve(clientshared) = %q, %v", group, ok)
	}
	if _, ok := g.Resolve("HybridApp"); ok {
		t.Error("Resolve(HybridApp) should be unsupported")
	}
}
