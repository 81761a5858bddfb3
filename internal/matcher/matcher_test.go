package matcher

import "testing"

func seedItems() []Item {
	return []Item{
		{ID: "1", Name: "Nasi Goreng Spesial"},
		{ID: "2", Name: "Mie Goreng Seafood"},
		{ID: "3", Name: "Kwetiaw Siram Sapi"},
		{ID: "4", Name: "Es Teh Manis"},
		{ID: "5", Name: "Es Jeruk"},
		{ID: "6", Name: "Kerupuk Putih"},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"mixed case", "Nasi Goreng Spesial", "nasi goreng spesial"},
		{"multiple spaces", "ES  Teh", "es teh"},
		{"comma separator", "nasi,goreng", "nasi goreng"},
		{"special characters", "mie-goreng!", "mie goreng"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.input); got != tt.expected {
				t.Errorf("normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	m := New(seedItems())

	tests := []struct {
		input      string
		wantStatus MatchStatus
		wantID     string
		candidates int
	}{
		{"nasi goreng", Matched, "1", 0},
		{"nasgor", Matched, "1", 0},
		{"Mie Goreng Seafood", Matched, "2", 0},
		{"migor", Matched, "2", 0},
		{"kwetiau sapi", Matched, "3", 0},
		{"es teh", Matched, "4", 0},
		{"esteh", Matched, "4", 0},
		{"es jeruk", Matched, "5", 0},
		{"kerupuk", Matched, "6", 0},
		{"goreng", Ambiguous, "", 2},
		{"es", Ambiguous, "", 2},
		{"sate kambing", Unmatched, "", 0},
		{"", Unmatched, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := m.Match(tt.input)
			if got.Status != tt.wantStatus {
				t.Fatalf("Match(%q) status = %v, want %v", tt.input, got.Status, tt.wantStatus)
			}
			if tt.wantStatus == Matched && got.Item.ID != tt.wantID {
				t.Errorf("Match(%q) = %s, want %s", tt.input, got.Item.ID, tt.wantID)
			}
			if len(got.Candidates) != tt.candidates {
				t.Errorf("Match(%q) candidates = %d, want %d", tt.input, len(got.Candidates), tt.candidates)
			}
		})
	}
}

func TestMatch_VariantFilter(t *testing.T) {
	items := []Item{
		{ID: "a", Name: "Nasi Goreng Ayam"},
		{ID: "b", Name: "Nasi Goreng Sapi"},
		{ID: "c", Name: "Nasi Goreng Biasa"},
	}
	m := New(items)

	got := m.Match("nasi goreng sapi")
	if got.Status != Matched || got.Item.ID != "b" {
		t.Fatalf("Match = %+v, want b", got)
	}

	// a variant no item carries filters everything out
	if got := m.Match("nasi goreng kambing"); got.Status != Unmatched {
		t.Errorf("status = %v, want Unmatched", got.Status)
	}
}

func TestNew_ExplicitKeywords(t *testing.T) {
	m := New([]Item{{ID: "x", Name: "Paket Hemat 1", Keywords: "paket,hemat,murah"}})
	if got := m.Match("yang murah"); got.Status != Matched {
		t.Errorf("status = %v, want Matched", got.Status)
	}
}

func TestMatchStatusString(t *testing.T) {
	if Ambiguous.String() != "Ambiguous" || MatchStatus(9).String() != "Unknown" {
		t.Error("unexpected MatchStatus strings")
	}
}
