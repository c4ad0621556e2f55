package domain

import "testing"

func TestKeyProperty(t *testing.T) {
	cases := map[string]string{
		LabelToken:   "symbol",
		LabelPost:    "id",
		LabelAccount: "user_id",
		LabelRegion:  "name",
		"Widget":     "",
	}
	for label, want := range cases {
		if got := KeyProperty(label); got != want {
			t.Errorf("KeyProperty(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestIsKnownRegion(t *testing.T) {
	if IsKnownRegion(UnknownRegion) {
		t.Errorf("sentinel region must not materialize")
	}
	if IsKnownRegion("") {
		t.Errorf("empty region must not materialize")
	}
	if !IsKnownRegion("New York, USA") {
		t.Errorf("real region must materialize")
	}
}
