package lib

import (
	"strconv"
	"strings"
	"time"
)

// GenerateOrderNumber generates an order number in the format ORD-<base36 unix ms>-<XXX>.
func GenerateOrderNumber(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))

	suffix, err := RandomString(3, alphanumeric)
	if err != nil {
		// crypto/rand failing is not recoverable for uniqueness, fall back to the clock
		suffix = strings.ToUpper(strconv.FormatInt(now.UnixNano()%46656, 36))
	}

	return "ORD-" + ts + "-" + suffix
}
