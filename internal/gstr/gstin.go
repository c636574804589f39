package gstr

import (
	"regexp"
	"strings"
)

var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// gstinAlphabet is the base-36 character set used by the GSTIN check digit.
const gstinAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ValidGSTIN reports whether s is a structurally valid 15-character GSTIN with
// a correct modulus-36 check digit. The check-digit computation follows the
// published GSTN algorithm: alternate factors 1 and 2 over the first 14
// characters, sum quotient and remainder of each product by 36, and take the
// complement of the running sum modulo 36.
func ValidGSTIN(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !gstinPattern.MatchString(s) {
		return false
	}
	return checkDigit(s[:14]) == s[14]
}

func checkDigit(s string) byte {
	sum := 0
	factor := 1
	for i := 0; i < len(s); i++ {
		v := strings.IndexByte(gstinAlphabet, s[i])
		if v < 0 {
			return 0
		}
		product := v * factor
		sum += product/36 + product%36
		if factor == 1 {
			factor = 2
		} else {
			factor = 1
		}
	}
	return gstinAlphabet[(36-sum%36)%36]
}
