package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("  User.Name+tag@Example.COM  "))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("two@@example.com"))
	assert.Error(t, ValidateEmail("user@nodot"))
	assert.Error(t, ValidateEmail("плохой@example.com"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("ram_thapa"))
	assert.NoError(t, ValidateUsername("User123"))

	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("1starts_with_digit"))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 31)))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(100))
	assert.NoError(t, ValidatePrice(0.5))

	assert.Error(t, ValidatePrice(0))
	assert.Error(t, ValidatePrice(-10))
	assert.Error(t, ValidatePrice(MaxPrice+1))
}

func TestValidateDeliveryTime(t *testing.T) {
	assert.NoError(t, ValidateDeliveryTime(1))
	assert.NoError(t, ValidateDeliveryTime(365))

	assert.Error(t, ValidateDeliveryTime(0))
	assert.Error(t, ValidateDeliveryTime(366))
}

func TestValidateRating(t *testing.T) {
	for r := 1; r <= 5; r++ {
		assert.NoError(t, ValidateRating(r))
	}
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
}

func TestValidateMessageContent(t *testing.T) {
	assert.NoError(t, ValidateMessageContent("привет"))

	assert.Error(t, ValidateMessageContent(""))
	assert.Error(t, ValidateMessageContent("   "))
	assert.Error(t, ValidateMessageContent(strings.Repeat("я", MaxMessageLength+1)))
}

func TestValidateLength_CountsRunes(t *testing.T) {
	// Кириллица: длина в рунах, не в байтах
	assert.NoError(t, ValidateLength("поле", strings.Repeat("я", 10), 0, 10))
	assert.Error(t, ValidateLength("поле", strings.Repeat("я", 11), 0, 10))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "logo-design", Slugify("Logo Design"))
	assert.Equal(t, "logo-design", Slugify("  Logo --- Design!  "))
	assert.Equal(t, "web-app-2024", Slugify("Web App 2024"))
	assert.Equal(t, "", Slugify("Дизайн логотипа"))
	assert.Equal(t, "", Slugify("!!!"))
}
