package service

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyMeal is returned before any network call when the description is blank.
	ErrEmptyMeal = errors.New("meal description is empty")
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("gemini client is not initialized")
	// ErrIncompleteResult is returned when the AI answer lacks nutrition or recipes.
	ErrIncompleteResult = errors.New("AI returned incomplete data")
)

// User-facing messages. Raw errors are logged and never shown.
const (
	MsgEmptyMeal     = "Please enter a meal or ingredients to analyze."
	MsgNotConfigured = "API Key is not configured. Please reload and try again."
	MsgInvalidAPIKey = "Invalid API Key. Please regenerate your key."
	MsgBadInput      = "Bad input. Please simplify your meal description."
	MsgGeneric       = "Something went wrong. Try a simpler input or check your connection."
)

// UserMessage reduces an analysis error to one of the canned messages.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyMeal):
		return MsgEmptyMeal
	case errors.Is(err, ErrNotConfigured):
		return MsgNotConfigured
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key not valid"):
		return MsgInvalidAPIKey
	case strings.Contains(msg, "400"):
		return MsgBadInput
	default:
		return MsgGeneric
	}
}
