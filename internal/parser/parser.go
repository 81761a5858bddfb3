// Package parser turns free-form WhatsApp chat text into expense entries and
// order lines.
package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	ErrNoItems = errors.New("no items found in message")
)

// ExpenseNote is a parsed shopping note such as
//
//	20 jan
//	gas 3kg 25k
//	minyak 2l 36rb
type ExpenseNote struct {
	Date     time.Time
	Items    []ExpenseItem
	Warnings []string // lines that failed to parse
}

type ExpenseItem struct {
	RawText     string
	Description string
	Qty         float64
	Unit        string
	Amount      int64
}

var indonesianMonths = map[string]time.Month{
	"jan": time.January, "januari": time.January,
	"feb": time.February, "februari": time.February,
	"mar": time.March, "maret": time.March,
	"apr": time.April, "april": time.April,
	"mei": time.May,
	"jun": time.June, "juni": time.June,
	"jul": time.July, "juli": time.July,
	"agu": time.August, "ags": time.August, "agustus": time.August,
	"sep": time.September, "september": time.September,
	"okt": time.October, "oktober": time.October,
	"nov": time.November, "november": time.November,
	"des": time.December, "desember": time.December,
}

// Known quantity units (NOT price suffixes).
var qtyUnits = map[string]bool{
	"kg": true, "g": true, "gr": true, "ons": true, "l": true, "ml": true,
	"pcs": true, "bks": true, "pack": true, "box": true, "dus": true,
	"ikat": true, "iket": true, "lbr": true, "btl": true, "tabung": true,
	"ltr": true, "buah": true, "bh": true, "lembar": true, "karung": true,
	"sdm": true, "sdt": true, "ekor": true, "btr": true, "butir": true,
}

// ParseExpenseNote parses a shopping note. The first non-empty line may be a
// date ("20 jan", "hari ini", "kemarin"); without one the note is dated
// today. Returned dates are local midnight in now's location.
func ParseExpenseNote(text string, now time.Time) (*ExpenseNote, error) {
	note := &ExpenseNote{Date: startOfDay(now)}
	dateChecked := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !dateChecked {
			dateChecked = true
			if date, ok := parseDateLine(line, now); ok {
				note.Date = date
				continue
			}
		}

		item, err := parseExpenseLine(line)
		if err != nil {
			note.Warnings = append(note.Warnings, fmt.Sprintf("skipped: %s", line))
			continue
		}
		note.Items = append(note.Items, *item)
	}

	if len(note.Items) == 0 {
		return nil, ErrNoItems
	}
	return note, nil
}

// parseDateLine parses "20 jan", "hari ini" or "kemarin" relative to now.
func parseDateLine(line string, now time.Time) (time.Time, bool) {
	line = strings.Join(strings.Fields(strings.ToLower(line)), " ")
	switch line {
	case "hari ini", "hr ini":
		return startOfDay(now), true
	case "kemarin", "kmrn":
		return startOfDay(now).AddDate(0, 0, -1), true
	}

	parts := strings.Fields(line)
	if len(parts) != 2 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	month, ok := indonesianMonths[parts[1]]
	if !ok {
		return time.Time{}, false
	}

	year := now.Year()
	parsed := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	// More than 30 days ahead means last year's note (Dec notes sent in Jan).
	if parsed.After(now.AddDate(0, 0, 30)) {
		parsed = time.Date(year-1, month, day, 0, 0, 0, 0, now.Location())
	}

	return parsed, true
}

// parseExpenseLine parses a single item line (e.g. "cabe merah 5kg 50k").
func parseExpenseLine(line string) (*ExpenseItem, error) {
	tokens := strings.Fields(strings.ToLower(line))

	var amount int64
	var qty float64 = 1
	var unit string
	var descTokens []string
	var priceFound, qtyFound bool

	for _, tok := range tokens {
		if p, ok := parsePrice(tok); ok && !priceFound {
			amount = p
			priceFound = true
		} else if q, u, ok := parseQtyUnitToken(tok); ok && !qtyFound {
			qty = q
			unit = u
			qtyFound = true
		} else {
			descTokens = append(descTokens, tok)
		}
	}

	if !priceFound {
		return nil, fmt.Errorf("no price found in line: %q", line)
	}
	if len(descTokens) == 0 {
		return nil, fmt.Errorf("no description in line: %q", line)
	}

	return &ExpenseItem{
		RawText:     line,
		Description: strings.Join(descTokens, " "),
		Qty:         qty,
		Unit:        unit,
		Amount:      amount,
	}, nil
}

// parsePrice parses rupiah amounts: "500k" → 500000, "1.5jt" → 1500000,
// "300rb" → 300000, "25.000" → 25000, "rp25000" → 25000. Bare numbers below
// 1000 are not prices; they are usually quantities.
func parsePrice(tok string) (int64, bool) {
	tok = strings.TrimPrefix(strings.ToLower(tok), "rp")

	type suffix struct {
		s string
		m float64
	}
	suffixes := []suffix{
		{"jt", 1_000_000},
		{"rb", 1_000},
		{"k", 1_000},
	}

	for _, sf := range suffixes {
		if strings.HasSuffix(tok, sf.s) {
			numStr := strings.ReplaceAll(tok[:len(tok)-len(sf.s)], ",", ".")
			if numStr == "" {
				continue
			}
			num, err := strconv.ParseFloat(numStr, 64)
			if err != nil || num <= 0 {
				continue
			}
			return int64(math.Round(num * sf.m)), true
		}
	}

	// thousands separators: 25.000 / 1.250.000
	plain := strings.ReplaceAll(tok, ".", "")
	if plain == "" {
		return 0, false
	}
	for _, r := range plain {
		if !unicode.IsDigit(r) {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(plain, 10, 64)
	if err != nil || n < 1000 {
		return 0, false
	}
	return n, true
}

// parseQtyUnitToken parses "5kg" → (5, "kg", true). Only matches known units.
func parseQtyUnitToken(tok string) (float64, string, bool) {
	if tok == "" {
		return 0, "", false
	}

	digitEnd := 0
	for i, r := range tok {
		if unicode.IsDigit(r) || r == '.' || r == ',' {
			digitEnd = i + 1
		} else {
			break
		}
	}

	if digitEnd == 0 || digitEnd == len(tok) {
		return 0, "", false
	}

	numPart := strings.ReplaceAll(tok[:digitEnd], ",", ".")
	unitPart := tok[digitEnd:]

	if !qtyUnits[unitPart] {
		return 0, "", false
	}

	qty, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, "", false
	}

	return qty, unitPart, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
