package types

import "testing"

func TestParseVersionNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    VersionNumber
		wantErr bool
	}{
		{"1.0", VersionNumber{1, 0}, false},
		{"1.1", VersionNumber{1, 1}, false},
		{"2.0", VersionNumber{2, 0}, false},
		{" 3.12 ", VersionNumber{3, 12}, false},
		{"1", VersionNumber{}, true},
		{"", VersionNumber{}, true},
		{"a.b", VersionNumber{}, true},
		{"-1.0", VersionNumber{}, true},
		{"1.-1", VersionNumber{}, true},
	}
	for _, tc := range cases {
		got, err := ParseVersionNumber(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVersionNumber(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVersionNumber(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVersionNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestVersionNumberOrderingAndBumps(t *testing.T) {
	v10 := VersionNumber{Major: 1, Minor: 0}
	v19 := VersionNumber{Major: 1, Minor: 9}
	v110 := VersionNumber{Major: 1, Minor: 10}
	v20 := VersionNumber{Major: 2, Minor: 0}

	if !v19.Less(v110) {
		t.Errorf("expected %s < %s", v19, v110)
	}
	if !v110.Less(v20) {
		t.Errorf("expected %s < %s", v110, v20)
	}
	if v20.Less(v10) {
		t.Errorf("did not expect %s < %s", v20, v10)
	}

	if got := v19.BumpMinor(); got != v110 {
		t.Errorf("BumpMinor(%s) = %s, want %s", v19, got, v110)
	}
	if got := v19.BumpMajor(); got != v20 {
		t.Errorf("BumpMajor(%s) = %s, want %s", v19, got, v20)
	}
	if got := v110.String(); got != "1.10" {
		t.Errorf("String() = %q, want %q", got, "1.10")
	}
}
