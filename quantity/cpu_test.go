package quantity

import (
	"errors"
	"testing"
)

func TestParseCpuQuantityValid(t *testing.T) {
	cases := map[string]int64{
		"1":     1000,
		"0.5":   500,
		"0.125": 125,
		"0.001": 1,
		"500m":  500,
		"1500m": 1500,
	}

	for input, wantMilli := range cases {
		q, err := ParseCpuQuantity(input)
		if err != nil {
			t.Fatalf("ParseCpuQuantity(%q): unexpected error: %v", input, err)
		}
		if q.MilliValue() != wantMilli {
			t.Fatalf("ParseCpuQuantity(%q).MilliValue() = %d, want %d", input, q.MilliValue(), wantMilli)
		}
	}
}

func TestParseCpuQuantityInvalid(t *testing.T) {
	invalid := []string{
		"0.0001",
		"0",
		"-1",
		"1.5.5",
		"1m500",
		"",
		"   ",
		"abc",
	}

	for _, input := range invalid {
		if _, err := ParseCpuQuantity(input); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("ParseCpuQuantity(%q): expected ErrInvalidQuantity, got %v", input, err)
		}
	}
}

func TestCpuQuantityEqualityIsCanonicalString(t *testing.T) {
	a, err := ParseCpuQuantity("500m")
	if err != nil {
		t.Fatalf("parse 500m: %v", err)
	}
	b, err := ParseCpuQuantity("0.5")
	if err != nil {
		t.Fatalf("parse 0.5: %v", err)
	}

	if a.MilliValue() != b.MilliValue() {
		t.Fatalf("expected equal milli values, got %d and %d", a.MilliValue(), b.MilliValue())
	}
	if a.Equal(b) {
		t.Fatal("expected 500m and 0.5 to compare unequal on canonical string")
	}

	c, err := ParseCpuQuantity("500m")
	if err != nil {
		t.Fatalf("parse 500m: %v", err)
	}
	if !a.Equal(c) {
		t.Fatal("expected two 500m quantities to be equal")
	}
}

func TestCpuQuantityPatch(t *testing.T) {
	base, err := ParseCpuQuantity("0.5")
	if err != nil {
		t.Fatalf("parse 0.5: %v", err)
	}

	unchanged, err := base.Patch("")
	if err != nil {
		t.Fatalf("Patch(\"\"): %v", err)
	}
	if !unchanged.Equal(base) {
		t.Fatal("Patch with blank should return the receiver unchanged")
	}

	patched, err := base.Patch("500m")
	if err != nil {
		t.Fatalf("Patch(500m): %v", err)
	}
	want, err := ParseCpuQuantity("500m")
	if err != nil {
		t.Fatalf("parse 500m: %v", err)
	}
	if !patched.Equal(want) {
		t.Fatalf("Patch(500m) = %v, want %v", patched, want)
	}

	if _, err := base.Patch("not-a-quantity"); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("Patch with invalid input: expected ErrInvalidQuantity, got %v", err)
	}
}
