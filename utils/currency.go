package utils

import (
	"fmt"
	"strings"
)

// FormatBaht formats an amount as Thai baht with thousands separators.
// Example: 1250.5 -> "฿1,250.50"
func FormatBaht(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	formatted := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return sign + "฿" + strings.Join(groups, ",") + "." + decimalPart
}

// BuddhistYear converts a Gregorian year to the Thai Buddhist era used on reports.
func BuddhistYear(year int) int {
	if year == 0 {
		return 0
	}
	return year + 543
}
