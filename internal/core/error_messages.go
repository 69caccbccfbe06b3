// Package core provides the business logic for the labor-market statistics pipeline.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Error codes are grouped by category:
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unreadable: The data file could not be opened
//	         Action: Check SOURCE_PATH and SOURCE_SHEET
//	         Patterns: "source unreadable"
//
//	SRC002 - Schema mismatch: The data file is missing expected columns
//	         Action: Compare the header row with the expected column list
//	         Patterns: "schema mismatch"
//
// # Query Errors (QRY001-QRY099)
//
//	QRY001 - No selection: No country or continent was selected
//	         Action: Select at least one option and submit
//	         Patterns: "invalid selection"
//
//	QRY002 - Invalid mode: Display mode must be countries or continents
//	         Patterns: "invalid display mode"
//
//	QRY003 - Invalid year: Year must be a positive whole number
//	         Patterns: "invalid year"
//
// # Cache Errors (CACHE001-CACHE099)
//
//	CACHE001 - Cache write failed: The local cache could not be updated
//	           Action: Data is still served from memory; check the cache store
//	           Patterns: "cache write failed"
//
// # Snapshot Errors (SNAP001-SNAP099)
//
//	SNAP001 - Not loaded: No dataset has been loaded yet
//	          Patterns: "no snapshot loaded"
//
//	SNAP002 - Unknown profile: The dataset profile is not registered
//	          Patterns: "unknown profile"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Source Errors (SRC001-SRC002)
	// =========================================================================
	{
		pattern: "source unreadable",
		msg: UserMessage{
			Message: "The data file could not be read",
			Action:  "Check that the source path and sheet name are correct",
			Code:    "SRC001",
		},
	},
	{
		pattern: "schema mismatch",
		msg: UserMessage{
			Message: "The data file is missing expected columns",
			Action:  "Compare the header row with the expected column list",
			Code:    "SRC002",
		},
	},

	// =========================================================================
	// Query Errors (QRY001-QRY003)
	// =========================================================================
	{
		pattern: "invalid selection",
		msg: UserMessage{
			Message: "No selection",
			Action:  "Select at least one option and submit",
			Code:    "QRY001",
		},
	},
	{
		pattern: "invalid display mode",
		msg: UserMessage{
			Message: "Unknown display mode",
			Action:  "Use countries or continents",
			Code:    "QRY002",
		},
	},
	{
		pattern: "invalid year",
		msg: UserMessage{
			Message: "Invalid year",
			Action:  "Use a four digit survey year such as 2020",
			Code:    "QRY003",
		},
	},

	// =========================================================================
	// Cache and snapshot errors
	// =========================================================================
	{
		pattern: "cache write failed",
		msg: UserMessage{
			Message: "The local cache could not be updated",
			Action:  "Data is still served from memory; check the cache store",
			Code:    "CACHE001",
		},
	},
	{
		pattern: "no snapshot loaded",
		msg: UserMessage{
			Message: "No dataset has been loaded yet",
			Action:  "Please try again in a few moments",
			Code:    "SNAP001",
		},
	},
	{
		pattern: "unknown profile",
		msg: UserMessage{
			Message: "The dataset profile is not configured",
			Action:  "Set DATASET_PROFILE to a registered profile",
			Code:    "SNAP002",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil errors.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError returns a single-line user message including the code.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific (non-default) message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
