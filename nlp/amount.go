package nlp

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// ParseAmount parses a chat amount such as "50k", "100000", "50.000" or
// "50,5". Separator ambiguity is resolved deterministically:
//   - a trailing k/K multiplies by 1,000 and makes any separator a decimal
//     point, so "50.5k" is 50500
//   - without k, trailing 3-digit groups are thousands separators ("50.000"
//     is 50000), a single non-3-digit group is a decimal fraction ("50,5")
//
// The result must be strictly positive.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	var amount decimal.Decimal
	var err error
	if strings.HasSuffix(s, "k") {
		base := strings.TrimSpace(strings.TrimSuffix(s, "k"))
		base = strings.ReplaceAll(base, ",", ".")
		if strings.Count(base, ".") > 1 {
			return decimal.Zero, fmt.Errorf("invalid amount: %s", text)
		}
		amount, err = decimal.NewFromString(base)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount: %s", text)
		}
		amount = amount.Mul(thousand)
	} else {
		amount, err = parsePlain(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount: %s", text)
		}
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than 0")
	}
	return amount, nil
}

func parsePlain(s string) (decimal.Decimal, error) {
	groups := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == ',' })
	seps := strings.Count(s, ".") + strings.Count(s, ",")
	if len(groups) == 0 || seps != len(groups)-1 {
		return decimal.Zero, fmt.Errorf("malformed number")
	}

	if len(groups) == 1 {
		return decimal.NewFromString(groups[0])
	}

	// All groups after the first being exactly 3 digits means the separators
	// are thousands grouping.
	grouping := true
	for _, g := range groups[1:] {
		if len(g) != 3 {
			grouping = false
			break
		}
	}
	if grouping {
		return decimal.NewFromString(strings.Join(groups, ""))
	}

	// A single non-3-digit group is a decimal fraction.
	if len(groups) == 2 {
		return decimal.NewFromString(groups[0] + "." + groups[1])
	}

	return decimal.Zero, fmt.Errorf("ambiguous separators")
}
