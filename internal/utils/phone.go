package utils

// MobileLength is the exact number of digits in a valid mobile number.
const MobileLength = 10

// ValidMobile reports whether s is exactly ten ASCII digits.
func ValidMobile(s string) bool {
	if len(s) != MobileLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
