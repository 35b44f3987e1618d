package service

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	errors "github.com/Laisky/errors/v2"
)

const (
	// maxUserIDLength caps the public handle length.
	maxUserIDLength = 32
	// maxUsernameLength caps the display name length.
	maxUsernameLength = 64
	// maxProfileImgLength caps the avatar url length.
	maxProfileImgLength = 1024
)

// sanitizeText trims input, rejects null bytes, and enforces maxLen runes.
func sanitizeText(input string, maxLen int, field string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.ContainsRune(trimmed, '\x00') {
		return "", errors.Errorf("%s contains invalid null byte", field)
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", errors.Errorf("%s exceeds max length %d", field, maxLen)
	}
	return trimmed, nil
}

// sanitizeUserID validates a public handle: ascii letters, digits and underscores only.
func sanitizeUserID(userID string) (string, error) {
	trimmed, err := sanitizeText(userID, maxUserIDLength, "user_id")
	if err != nil {
		return "", err
	}
	if trimmed == "" {
		return "", errors.New("user_id is required")
	}
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return "", errors.Errorf("user_id contains invalid character %q", r)
		}
	}
	return trimmed, nil
}

func sanitizeUsername(username string) (string, error) {
	trimmed, err := sanitizeText(username, maxUsernameLength, "username")
	if err != nil {
		return "", err
	}
	if trimmed == "" {
		return "", errors.New("username is required")
	}
	return trimmed, nil
}

func sanitizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", errors.Errorf("invalid email %q", email)
	}
	return strings.ToLower(trimmed), nil
}
