package call

import "regexp"

// PhoneFormatMessage is returned when a destination is not E.164-like.
const PhoneFormatMessage = "Invalid phone format. Use E.164 format: +[country code][number] (8-15 digits)"

var e164 = regexp.MustCompile(`^\+\d{8,15}$`)

// ValidPhone reports whether number is a leading + followed by 8 to 15 digits.
func ValidPhone(number string) bool {
	return e164.MatchString(number)
}
