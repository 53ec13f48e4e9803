package core

import "testing"

func TestKeyString(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{Key{Kind: KindProvince}, "region:v1:province"},
		{Key{Kind: KindRegency, ParentCode: "32"}, "region:v1:regency:32"},
		{Key{Kind: KindDistrict, ParentCode: "3201"}, "region:v1:district:3201"},
		{Key{Kind: KindVillage, ParentCode: "3201010"}, "region:v1:village:3201010"},
	}
	for _, tc := range cases {
		if got := tc.key.String(); got != tc.want {
			t.Errorf("Key%v.String() = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestKindRequiresParent(t *testing.T) {
	if KindProvince.RequiresParent() {
		t.Error("province should not require a parent code")
	}
	for _, k := range []Kind{KindRegency, KindDistrict, KindVillage} {
		if !k.RequiresParent() {
			t.Errorf("%s should require a parent code", k)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Regency ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k != KindRegency {
		t.Errorf("got %q, want %q", k, KindRegency)
	}

	if _, err := ParseKind("country"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"BOGOR", "Bogor"},
		{"JAWA BARAT", "Jawa Barat"},
		{"KAB. BOGOR", "Kab. Bogor"},
		{"Kota Bogor", "Kota Bogor"}, // already readable, untouched
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCloneRegionsIsIndependent(t *testing.T) {
	orig := []Region{{Code: "32", Name: "Jawa Barat"}}
	clone := CloneRegions(orig)
	clone[0].Name = "mutated"
	if orig[0].Name != "Jawa Barat" {
		t.Error("clone mutation leaked into original slice")
	}
	if CloneRegions(nil) != nil {
		t.Error("clone of nil should stay nil")
	}
}
