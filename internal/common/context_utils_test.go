package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"ama@example.com", "kwame.mensah@firm.co.uk", "x+tag@y.io"}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "  ", "nope", "a@b", "a b@c.com", "@example.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"0554345443", "+233554345443", "0244123456"}
	for _, phone := range valid {
		assert.NoError(t, ValidatePhone(phone), phone)
	}

	invalid := []string{"", "12345", "055434544", "05543454433", "+1554345443", "phone"}
	for _, phone := range invalid {
		assert.Error(t, ValidatePhone(phone), phone)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Abc12345!"))
	assert.NoError(t, ValidatePassword("Admin@2025"))

	weak := []string{
		"Ab1!",      // too short
		"abc12345!", // no uppercase
		"ABC12345!", // no lowercase
		"Abcdefgh!", // no digit
		"Abc123456", // no symbol
	}
	for _, password := range weak {
		assert.Error(t, ValidatePassword(password), password)
	}
}

func TestValidatePositivePrice(t *testing.T) {
	assert.NoError(t, ValidatePositivePrice(1))
	assert.NoError(t, ValidatePositivePrice(450000.50))
	assert.Error(t, ValidatePositivePrice(0))
	assert.Error(t, ValidatePositivePrice(-10))
	assert.Error(t, ValidatePositivePrice(1000000001))
}

func TestValidateUUIDParam(t *testing.T) {
	id, err := ValidateUUIDParam("b9e6f3f0-5f2c-4a93-9a3e-61a0b0b3f6a1", "id")
	assert.NoError(t, err)
	assert.Equal(t, "b9e6f3f0-5f2c-4a93-9a3e-61a0b0b3f6a1", id.String())

	_, err = ValidateUUIDParam("", "id")
	assert.Error(t, err)

	_, err = ValidateUUIDParam("not-a-uuid", "id")
	assert.Error(t, err)
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, 0)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(500, -3)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(50, 40)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 40, offset)
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, "accra", SanitizeSearchQuery("accra"))
	assert.Equal(t, "accra", SanitizeSearchQuery("%accra%"))
	assert.Equal(t, "eastlegon", SanitizeSearchQuery("east_legon"))
	assert.Len(t, SanitizeSearchQuery(strings.Repeat("a", 200)), 100)
}
