package validator

import "testing"

func TestValidateMobile(t *testing.T) {
	valid := []string{"9123456780", "6000000000", "7999999999", "8765432109"}
	for _, mobile := range valid {
		if err := ValidateMobile(mobile); err != nil {
			t.Fatalf("expected %q to be valid, got %v", mobile, err)
		}
	}

	invalid := []string{
		"",
		"12345",
		"5123456780",
		"91234567801",
		"912345678",
		"9123 45678",
		"912345678a",
		"+919123456780",
	}
	for _, mobile := range invalid {
		if err := ValidateMobile(mobile); err != ErrInvalidMobile {
			t.Fatalf("expected %q to be rejected, got %v", mobile, err)
		}
	}
}
