package pricing

import (
	"strconv"
	"strings"
)

// ToMinorUnits converts whole dollars to cents. The calculator works in
// dollars; the payment endpoint expects cents.
func ToMinorUnits(dollars int64) int64 {
	return dollars * 100
}

// FormatDollars renders an amount as "$1,500".
func FormatDollars(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$" + formatThousand(amount)
}

func formatThousand(n int64) string {
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
