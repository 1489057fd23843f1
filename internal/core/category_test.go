package core

import "testing"

func TestCategories_CoverAllMeta(t *testing.T) {
	if len(Categories) != 16 {
		t.Fatalf("len(Categories) = %d, want 16", len(Categories))
	}
	seen := make(map[Category]bool)
	for _, c := range Categories {
		if seen[c] {
			t.Errorf("category %q listed twice", c)
		}
		seen[c] = true
		if _, ok := categoryMeta[c]; !ok {
			t.Errorf("category %q has no display metadata", c)
		}
	}
	for c := range categoryMeta {
		if !seen[c] {
			t.Errorf("metadata for %q is not in the ordered list", c)
		}
	}
}

func TestCategory_Valid(t *testing.T) {
	if !CategoryFoodDining.Valid() {
		t.Error("Food & Dining should be valid")
	}
	if !CategoryOther.Valid() {
		t.Error("Other should be valid")
	}
	if Category("Crypto").Valid() {
		t.Error("unknown label should not be valid")
	}
	if Category("").Valid() {
		t.Error("empty label should not be valid")
	}
}

func TestCategory_Meta(t *testing.T) {
	m := CategoryFoodDining.Meta()
	if m.Icon == "" || m.Color == "" {
		t.Errorf("Meta() = %+v, want icon and color", m)
	}

	unknown := Category("Mystery").Meta()
	if unknown != categoryMeta[CategoryOther] {
		t.Errorf("unknown category Meta() = %+v, want Other metadata", unknown)
	}
}
