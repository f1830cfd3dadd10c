package lead

import (
	"strconv"
	"strings"
)

// ParsePrice turns heterogeneous price text ("$123,456", "123456.99",
// "", "call for price") into whole currency units. Returns nil when
// nothing numeric is left after stripping symbols; never errors.
// Fractional input is truncated, not rounded.
func ParsePrice(raw string) *int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	var b strings.Builder
	seenDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			seenDigit = true
		case r == '-' && i == 0:
			b.WriteRune(r)
		case r == '.':
			// truncate cents
			if seenDigit {
				goto done
			}
		case r == '$' || r == ',' || r == ' ':
			// currency noise
		default:
			if seenDigit {
				goto done
			}
			// leading garbage like "USD " is tolerated
		}
	}
done:
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// PriceFromFloat converts an already-numeric price (JSON sources
// decode numbers as float64) to whole units, truncating cents.
func PriceFromFloat(v float64) *int64 {
	n := int64(v)
	return &n
}
