// Package standards validates the article numbering standards used in
// trade documents: GS1 GTIN-14 article numbers and eCl@ss commodity codes.
package standards

// GTINLength is the digit count of a GTIN-14 article number.
const GTINLength = 14

// IsValidGTIN reports whether code is a well-formed GTIN-14: exactly
// fourteen digits whose last digit satisfies the mod-10 check over the
// thirteen before it, weighted 1 and 3 alternately from the left.
func IsValidGTIN(code string) bool {
	if len(code) != GTINLength {
		return false
	}
	sum := 0
	for i := 0; i < GTINLength-1; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
		digit := int(code[i] - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	last := code[GTINLength-1]
	if last < '0' || last > '9' {
		return false
	}
	return int(last-'0') == (10-sum%10)%10
}
