package vm

import "testing"

func TestFromSignum(t *testing.T) {
	cases := []struct {
		w    uint16
		want CondCodes
	}{
		{0x0000, Z},
		{0x0001, P},
		{0x7FFF, P},
		{0x8000, N},
		{0xFFFF, N},
	}
	for _, tc := range cases {
		if got := FromSignum(tc.w); got != tc.want {
			t.Errorf("FromSignum(%#04x) = %s, want %s", tc.w, got, tc.want)
		}
	}
}

func TestCondCodesIntersects(t *testing.T) {
	if !N.Intersects(N.Union(Z)) {
		t.Errorf("N should intersect with N|Z")
	}
	if P.Intersects(N.Union(Z)) {
		t.Errorf("P should not intersect with N|Z")
	}
	if !ALL.Intersects(Z) {
		t.Errorf("ALL should intersect with any single flag")
	}
}

func TestFromLowBits(t *testing.T) {
	if got := FromLowBits(0b1111_1010); got != FromLowBits(0b010) {
		t.Errorf("FromLowBits should only look at bits [2:0]")
	}
	if got := FromLowBits(0b110); got != N.Union(Z) {
		t.Errorf("FromLowBits(0b110) = %s, want N|Z", got)
	}
}
