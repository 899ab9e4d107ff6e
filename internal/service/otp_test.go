package service

import "testing"

func TestGenerateOTPCodeFormat(t *testing.T) {
	for i := 0; i < 10000; i++ {
		code, err := generateOTPCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !isValidOTPCode(code) {
			t.Fatalf("code %q is not 6 decimal digits", code)
		}
	}
}

func TestIsValidOTPCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"000000", true},
		{"999999", true},
		{"012345", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"١٢٣", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isValidOTPCode(tc.code); got != tc.want {
			t.Fatalf("isValidOTPCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
