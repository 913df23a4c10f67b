package standards

import "strconv"

// Supported eCl@ss release versions, read from the first two digits of a
// commodity code.
const (
	MinEclassVersion = 10
	MaxEclassVersion = 12

	eclassLength = 8
)

// IsValidEclass reports whether code is an eCl@ss commodity code the
// platform accepts: exactly eight digits opening with a supported release
// version.
func IsValidEclass(code string) bool {
	if len(code) != eclassLength {
		return false
	}
	for i := 0; i < eclassLength; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	version, err := strconv.Atoi(code[:2])
	if err != nil {
		return false
	}
	return version >= MinEclassVersion && version <= MaxEclassVersion
}
