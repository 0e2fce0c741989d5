package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNotConnected     = errors.New("not connected to home assistant")
	ErrAuthFailed       = errors.New("home assistant authentication failed")
	ErrConnectionClosed = errors.New("connection closed")
	ErrNoPlaybackTarget = errors.New("no playback target available")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// MissingIdentityError reports a device record that carries neither
// spelling of a required identity field.
type MissingIdentityError struct {
	Field string // "id" or "type"
}

func (e *MissingIdentityError) Error() string {
	return fmt.Sprintf("device record missing identity: neither %q nor %q present", "device_"+e.Field, e.Field)
}

// TransportError reports a failed remote call, identified by the fetch
// stage that was running when it failed.
type TransportError struct {
	Stage string // devices, player, chromecasts, playlists
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FilterError reports a playlist filter failure that is not a pattern
// syntax problem. Syntax problems never surface; they trigger the
// unfiltered fallback instead.
type FilterError struct {
	Rule string
	Err  error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter rule %q: %v", e.Rule, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// DeckError wraps an error with a user-friendly suggestion.
type DeckError struct {
	Err        error
	Suggestion string
}

func (e *DeckError) Error() string {
	return e.Err.Error()
}

func (e *DeckError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &DeckError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a DeckError with suggestion
	var deckErr *DeckError
	if errors.As(err, &deckErr) && deckErr.Suggestion != "" {
		return deckErr.Suggestion
	}

	if errors.Is(err, ErrNoPlaybackTarget) {
		return "Open Spotify on a device, or set spotcast.default_device in your config"
	}

	if errors.Is(err, ErrAuthFailed) {
		return "Check hass.token: it must be a long-lived access token for your Home Assistant user"
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "Check that Home Assistant is reachable and the Spotcast integration is installed"
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrNotConnected) || errors.Is(err, ErrConnectionClosed) ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "timeout") {
		return "Check hass.url and your network connection"
	}

	if errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'castdeck config init' to create a starter configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
