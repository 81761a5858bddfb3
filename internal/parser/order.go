package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// OrderLine is one line of a WhatsApp order, e.g. "2 nasi goreng spesial".
type OrderLine struct {
	RawText string
	Name    string
	Qty     int
}

// OrderMessage is a parsed WhatsApp order.
type OrderMessage struct {
	Lines    []OrderLine
	Warnings []string
}

// Words that follow a quantity and carry no menu meaning ("2 porsi nasgor").
var servingWords = map[string]bool{
	"porsi": true, "pcs": true, "bks": true, "bungkus": true,
	"gelas": true, "gls": true, "btl": true, "botol": true, "biji": true,
}

// Chat filler that is never an order line on its own.
var fillerLines = map[string]bool{
	"halo": true, "hai": true, "pesan": true, "pesen": true, "order": true,
	"mau pesan": true, "mau pesen": true, "makasih": true, "terima kasih": true,
	"thanks": true, "ok": true, "oke": true,
}

// ParseOrder splits an order message into name/quantity lines. Quantities
// may lead ("2 nasgor", "2x nasgor", "x2 nasgor") or trail ("nasgor x2",
// "nasgor 2"). Lines with no name are reported as warnings.
func ParseOrder(text string) (*OrderMessage, error) {
	msg := &OrderMessage{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
		if line == "" {
			continue
		}
		if fillerLines[strings.ToLower(strings.Trim(line, " .,!"))] {
			continue
		}

		ol, err := parseOrderLine(line)
		if err != nil {
			msg.Warnings = append(msg.Warnings, fmt.Sprintf("skipped: %s", line))
			continue
		}
		msg.Lines = append(msg.Lines, ol)
	}

	if len(msg.Lines) == 0 {
		return nil, ErrNoItems
	}
	return msg, nil
}

func parseOrderLine(line string) (OrderLine, error) {
	tokens := strings.Fields(strings.ToLower(line))
	qty := 0

	if len(tokens) > 0 {
		if q, ok := parseOrderQty(tokens[0]); ok {
			qty = q
			tokens = tokens[1:]
			if len(tokens) > 0 && servingWords[tokens[0]] {
				tokens = tokens[1:]
			}
		}
	}
	if qty == 0 && len(tokens) > 1 {
		if q, ok := parseOrderQty(tokens[len(tokens)-1]); ok {
			qty = q
			tokens = tokens[:len(tokens)-1]
		}
	}
	if qty == 0 {
		qty = 1
	}

	name := strings.Join(tokens, " ")
	if !strings.ContainsFunc(name, unicode.IsLetter) {
		return OrderLine{}, fmt.Errorf("no menu name in line: %q", line)
	}
	return OrderLine{RawText: line, Name: name, Qty: qty}, nil
}

// parseOrderQty accepts "2", "2x" and "x2".
func parseOrderQty(tok string) (int, bool) {
	tok = strings.TrimSuffix(strings.TrimPrefix(tok, "x"), "x")
	if tok == "" {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 || n > 999 {
		return 0, false
	}
	return n, true
}
