package validator

import (
	"errors"
	"regexp"
)

var ErrInvalidMobile = errors.New("invalid mobile number")

// Indian mobile numbering plan: ten digits, first digit 6-9.
var mobileRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)

func ValidateMobile(mobile string) error {
	if !mobileRegex.MatchString(mobile) {
		return ErrInvalidMobile
	}
	return nil
}
