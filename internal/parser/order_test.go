package parser

import (
	"errors"
	"testing"
)

func TestParseOrderLine(t *testing.T) {
	tests := []struct {
		input string
		name  string
		qty   int
	}{
		{"2 nasi goreng spesial", "nasi goreng spesial", 2},
		{"2x mie goreng", "mie goreng", 2},
		{"x3 es teh", "es teh", 3},
		{"es jeruk x2", "es jeruk", 2},
		{"Kerupuk 4", "kerupuk", 4},
		{"3 porsi kwetiaw", "kwetiaw", 3},
		{"nasi goreng", "nasi goreng", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseOrderLine(tt.input)
			if err != nil {
				t.Fatalf("parseOrderLine(%q): %v", tt.input, err)
			}
			if got.Name != tt.name || got.Qty != tt.qty {
				t.Errorf("parseOrderLine(%q) = %q x%d, want %q x%d", tt.input, got.Name, got.Qty, tt.name, tt.qty)
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	msg := "Halo\nmau pesan\n- 2 nasi goreng spesial\n- es teh x2\n3\nmakasih!"
	got, err := ParseOrder(msg)
	if err != nil {
		t.Fatalf("ParseOrder: %v", err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("lines = %+v", got.Lines)
	}
	if got.Lines[1].Name != "es teh" || got.Lines[1].Qty != 2 {
		t.Errorf("second line = %+v", got.Lines[1])
	}
	if len(got.Warnings) != 1 || got.Warnings[0] != "skipped: 3" {
		t.Errorf("warnings = %v", got.Warnings)
	}
}

func TestParseOrder_Empty(t *testing.T) {
	if _, err := ParseOrder("halo\n\nterima kasih"); !errors.Is(err, ErrNoItems) {
		t.Errorf("err = %v, want ErrNoItems", err)
	}
}
