package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var moneyJunkRe = regexp.MustCompile(`[^0-9.,\-]`)

// ParseMoney parses a monetary token in pt-BR or plain form. The comma
// decimal separator is tried first: "1.518,00" -> 1518.00. Without a comma
// the dot is taken as the decimal separator.
func ParseMoney(s string) (decimal.Decimal, error) {
	t := moneyJunkRe.ReplaceAllString(strings.TrimSpace(s), "")
	if t == "" {
		return decimal.Zero, fmt.Errorf("parse money: empty token %q", s)
	}
	if strings.Contains(t, ",") {
		t = strings.ReplaceAll(t, ".", "")
		t = strings.ReplaceAll(t, ",", ".")
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse money %q: %w", s, err)
	}
	return d, nil
}

// FormatMoney renders a decimal the way the receipts print it: R$ 1.518,00.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2) // e.g. -1518.00
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + fracPart
	if neg {
		out = "R$ -" + b.String() + "," + fracPart
	}
	return out
}
