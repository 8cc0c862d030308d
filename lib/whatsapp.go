package lib

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildWhatsAppURL returns a wa.me click-to-chat link with a prefilled message.
func BuildWhatsAppURL(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}

// FormatMoney renders an amount in cents as "LKR 1,500.00".
func FormatMoney(currency string, cents uint64) string {
	whole := strconv.FormatUint(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	fracStr := strconv.FormatUint(frac, 10)
	if frac < 10 {
		fracStr = "0" + fracStr
	}

	return currency + " " + b.String() + "." + fracStr
}
