package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength       = 3
	MaxUsernameLength       = 30
	MinGigTitleLength       = 3
	MaxGigTitleLength       = 200
	MinGigDescriptionLength = 10
	MaxGigDescriptionLength = 5000
	MaxRequirementsLength   = 5000
	MaxCommentLength        = 2000
	MaxBioLength            = 500
	MaxSkillsLength         = 500
	MinMessageLength        = 1
	MaxMessageLength        = 5000
	MinRating               = 1
	MaxRating               = 5
	MaxPrice                = 100000000.0 // 100 миллионов
	MaxDeliveryDays         = 365
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateGigTitle проверяет заголовок услуги.
func ValidateGigTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("заголовок услуги обязателен")
	}
	return ValidateLength("заголовок услуги", strings.TrimSpace(title), MinGigTitleLength, MaxGigTitleLength)
}

// ValidateGigDescription проверяет описание услуги.
func ValidateGigDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("описание услуги обязательно")
	}
	return ValidateLength("описание услуги", strings.TrimSpace(description), MinGigDescriptionLength, MaxGigDescriptionLength)
}

// ValidatePrice проверяет цену услуги: строго положительная.
func ValidatePrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("цена должна быть положительной")
	}
	if price > MaxPrice {
		return fmt.Errorf("цена не может превышать %.0f", MaxPrice)
	}
	return nil
}

// ValidateDeliveryTime проверяет срок выполнения в днях.
func ValidateDeliveryTime(days int) error {
	if days <= 0 {
		return fmt.Errorf("срок выполнения должен быть положительным")
	}
	if days > MaxDeliveryDays {
		return fmt.Errorf("срок выполнения не может превышать %d дней", MaxDeliveryDays)
	}
	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("рейтинг должен быть от %d до %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateRequirements проверяет текст требований к заказу.
func ValidateRequirements(requirements string) error {
	return ValidateLength("требования", requirements, 0, MaxRequirementsLength)
}

// ValidateMessageContent проверяет содержимое сообщения.
func ValidateMessageContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}
	return ValidateLength("сообщение", content, MinMessageLength, MaxMessageLength)
}

// Slugify строит slug из заголовка: латиница, цифры и дефисы.
func Slugify(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := true
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
