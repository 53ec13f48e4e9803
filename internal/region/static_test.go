package region

import "testing"

func TestStaticProvinces(t *testing.T) {
	provinces := StaticProvinces()
	if len(provinces) != 38 {
		t.Fatalf("expected 38 provinces, got %d", len(provinces))
	}
	byCode := map[string]string{}
	for _, p := range provinces {
		if p.Code == "" || p.Name == "" {
			t.Errorf("incomplete entry: %+v", p)
		}
		if _, dup := byCode[p.Code]; dup {
			t.Errorf("duplicate province code %q", p.Code)
		}
		byCode[p.Code] = p.Name
	}
	if byCode["32"] != "Jawa Barat" {
		t.Errorf(`province 32 = %q, want "Jawa Barat"`, byCode["32"])
	}

	// Callers receive copies; mutating one must not leak into the table.
	provinces[0].Name = "mutated"
	if StaticProvinces()[0].Name == "mutated" {
		t.Error("StaticProvinces must return an independent copy")
	}
}
