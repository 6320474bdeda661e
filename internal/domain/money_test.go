package domain

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"1250", 125000, false},
		{"1,250.5", 125050, false},
		{"0.07", 7, false},
		{"12.345", 0, true},
		{"12.", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"1.-5", 0, true},
		{"92233720368547757.99", 9223372036854775799, false},
		{"92233720368547759", 0, true},
		{"184467440737095517", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount("sumAmount", tc.in)
		if tc.wantErr {
			if !IsValidation(err) {
				t.Errorf("%q: expected validation error, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%q: expected %d, got %d (%v)", tc.in, tc.want, got, err)
		}
	}
}
