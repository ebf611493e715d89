package middleware

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxMessageLength = 4000
	maxEmojiRunes    = 8
	maxIDLength      = 64
	maxFieldLength   = 2000
)

// ValidateMessageText validates the text of an outgoing message. Blank text
// is left to the thread store, which owns that rule.
func ValidateMessageText(text string) error {
	if !utf8.ValidString(text) {
		return errors.New("text must be valid UTF-8")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return errors.New("text exceeds maximum length")
	}
	return nil
}

// ValidateEmoji validates a reaction key: a short run of non-space runes.
func ValidateEmoji(emoji string) error {
	if emoji == "" {
		return errors.New("emoji cannot be empty")
	}
	if !utf8.ValidString(emoji) {
		return errors.New("emoji must be valid UTF-8")
	}
	if utf8.RuneCountInString(emoji) > maxEmojiRunes {
		return errors.New("emoji exceeds maximum length")
	}
	if strings.IndexFunc(emoji, unicode.IsSpace) >= 0 {
		return errors.New("emoji cannot contain whitespace")
	}
	return nil
}

// ValidateID validates a path identifier.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > maxIDLength {
		return errors.New("id exceeds maximum length")
	}
	if strings.IndexFunc(id, func(r rune) bool { return unicode.IsSpace(r) || r == '/' }) >= 0 {
		return errors.New("id contains invalid characters")
	}
	return nil
}

// ValidateFieldValue validates a profile field value or tag.
func ValidateFieldValue(value string) error {
	if !utf8.ValidString(value) {
		return errors.New("value must be valid UTF-8")
	}
	if utf8.RuneCountInString(value) > maxFieldLength {
		return errors.New("value exceeds maximum length")
	}
	return nil
}
