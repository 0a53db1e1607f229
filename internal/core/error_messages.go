package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Grid Errors (GRD001-GRD099)
//
// Errors raised by grid operations on columns, records, editors and filters:
//
//	GRD001 - Column not found: The column does not exist or is hidden
//	         Action: Check the column id and that the column is visible
//	         Patterns: "column not found"
//
//	GRD002 - Record not found: The record does not exist or is filtered out
//	         Action: The record may have been removed or filtered out. Refresh the grid
//	         Patterns: "record not found"
//
//	GRD003 - Record has no id: A record lacks a non-empty "id" field
//	         Action: Give every record a non-empty "id" field
//	         Patterns: "record has no id"
//
//	GRD004 - Cell not editable: This cell cannot be edited inline
//	         Action: Only text and list columns have inline editors
//	         Patterns: "cell not editable"
//
//	GRD005 - No open editor: No cell is being edited
//	         Action: Open an editor on a cell first
//	         Patterns: "no open editor"
//
//	GRD006 - Unknown style keys: Unknown style keys in grid options
//	         Action: Use only the documented style keys
//	         Patterns: "unknown style keys"
//
//	GRD007 - No open filter popup: No filter popup is open
//	         Action: Open the filter popup of a column first
//	         Patterns: "no open filter popup"
//
//	GRD008 - Column has no filter: This column cannot be filtered
//	         Action: Declare a filter for the column
//	         Patterns: "column has no filter"
//
// # Session Errors (SES001-SES099)
//
// Errors from the session registry:
//
//	SES001 - Session not found: Grid session not found
//	         Action: The session may have expired. Create a new grid
//	         Patterns: "grid session not found"
//
//	SES002 - Too many sessions: Too many open grids
//	         Action: Close unused grids or wait for idle ones to expire
//	         Patterns: "too many grid sessions"
//
// # Database Errors (DB004-DB007)
//
// Errors from the Postgres or SQLite state store. DB001-DB003 are unused:
//
//	DB004 - Connection refused: Unable to connect to database
//	        Action: Please try again in a few moments
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Action: Please try again
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Action: Please try again later
//	        Patterns: "timeout"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Action: Please try again
//	        Patterns: "deadlock"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request: The request could not be read
//	         Action: Send a valid JSON body
//	         Patterns: "invalid request body"
//
//	REQ002 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	REQ003 - Request timeout: Request timed out
//	         Action: Please try again
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Returned when no pattern matches. The technical error is still logged.
//
// # Pattern Matching
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins. "context deadline exceeded" must precede "timeout",
// and "grid session not found" must not be shadowed by a shorter pattern.

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by sessions.
var (
	ErrSessionNotFound = errors.New("grid session not found")
	ErrTooManySessions = errors.New("too many grid sessions")
	ErrColumnNotFound  = errors.New("column not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrRecordID        = errors.New("record has no id")
	ErrCellNotEditable = errors.New("cell not editable")
	ErrNoEditor        = errors.New("no open editor")
	ErrNoPopup         = errors.New("no open filter popup")
	ErrNotFilterable   = errors.New("column has no filter")
	ErrInvalidRequest  = errors.New("invalid request body")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Grid
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "Column not found",
			Action:  "Check the column id and that the column is visible",
			Code:    "GRD001",
		},
	},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "The record may have been removed or filtered out. Refresh the grid",
			Code:    "GRD002",
		},
	},
	{
		pattern: "record has no id",
		msg: UserMessage{
			Message: "Record has no id",
			Action:  `Give every record a non-empty "id" field`,
			Code:    "GRD003",
		},
	},
	{
		pattern: "cell not editable",
		msg: UserMessage{
			Message: "This cell cannot be edited inline",
			Action:  "Only text and list columns have inline editors",
			Code:    "GRD004",
		},
	},
	{
		pattern: "no open editor",
		msg: UserMessage{
			Message: "No cell is being edited",
			Action:  "Open an editor on a cell first",
			Code:    "GRD005",
		},
	},
	{
		pattern: "unknown style keys",
		msg: UserMessage{
			Message: "Unknown style keys in grid options",
			Action:  "Use only the documented style keys",
			Code:    "GRD006",
		},
	},
	{
		pattern: "no open filter popup",
		msg: UserMessage{
			Message: "No filter popup is open",
			Action:  "Open the filter popup of a column first",
			Code:    "GRD007",
		},
	},
	{
		pattern: "column has no filter",
		msg: UserMessage{
			Message: "This column cannot be filtered",
			Action:  "Declare a filter for the column",
			Code:    "GRD008",
		},
	},

	// Sessions
	{
		pattern: "grid session not found",
		msg: UserMessage{
			Message: "Grid session not found",
			Action:  "The session may have expired. Create a new grid",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many grid sessions",
		msg: UserMessage{
			Message: "Too many open grids",
			Action:  "Close unused grids or wait for idle ones to expire",
			Code:    "SES002",
		},
	},

	// Database
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// Requests
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a valid JSON body",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
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

// MapError converts a technical error to a user-friendly message. The first
// matching pattern wins; unmatched errors map to ERR000.
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

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
