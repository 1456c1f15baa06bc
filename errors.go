package main

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be displayed to the user with helpful context
type UserError struct {
	Message    string
	Cause      error
	Suggestion string
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// FormatUserError formats an error for user display with colors and suggestions
func FormatUserError(err error) string {
	var sb strings.Builder

	var userErr *UserError
	if errors.As(err, &userErr) {
		sb.WriteString(fmt.Sprintf("\033[91mError:\033[0m %s\n", userErr.Message))
		if userErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("       Cause: %v\n", userErr.Cause))
		}
		if userErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("\n\033[93mSuggestion:\033[0m %s\n", userErr.Suggestion))
		}
	} else {
		errStr := err.Error()
		sb.WriteString(fmt.Sprintf("\033[91mError:\033[0m %s\n", errStr))

		suggestion := getSuggestionForError(errStr)
		if suggestion != "" {
			sb.WriteString(fmt.Sprintf("\n\033[93mSuggestion:\033[0m %s\n", suggestion))
		}
	}

	return sb.String()
}

// getSuggestionForError returns a helpful suggestion based on error content
func getSuggestionForError(errStr string) string {
	errLower := strings.ToLower(errStr)

	// SQLite
	if strings.Contains(errLower, "database is locked") {
		return "Another termfolio may be running against the same database. Close it or point TERMFOLIO_DB at another file."
	}
	if strings.Contains(errLower, "unable to open database") {
		return "Check that the directory holding TERMFOLIO_DB exists and is writable, or run with --store memory."
	}

	// S3
	if strings.Contains(errLower, "no valid credential") ||
		strings.Contains(errLower, "unable to sign request") ||
		strings.Contains(errLower, "security token") {
		return "Check your AWS credentials. Run 'aws configure' or set TERMFOLIO_S3_ACCESS_KEY and TERMFOLIO_S3_SECRET_KEY."
	}
	if strings.Contains(errLower, "nosuchbucket") || strings.Contains(errLower, "bucket") {
		return "Set TERMFOLIO_S3_BUCKET to a bucket your credentials can create or write to."
	}
	if strings.Contains(errLower, "region") {
		return "Set the AWS_REGION environment variable (e.g., 'export AWS_REGION=us-east-1')."
	}
	if strings.Contains(errLower, "access denied") ||
		strings.Contains(errLower, "not authorized") {
		return "Your credentials may not allow s3:GetObject, s3:PutObject and s3:ListBucket on the bucket."
	}

	// Terminal
	if strings.Contains(errLower, "tty") || strings.Contains(errLower, "inappropriate ioctl") {
		return "termfolio needs an interactive terminal. Run it directly, not through a pipe."
	}

	if strings.Contains(errLower, "permission denied") {
		return "Check the permissions on ~/.termfolio, or set TERMFOLIO_LOG_PATH and TERMFOLIO_DB to writable locations."
	}

	if strings.Contains(errLower, "timeout") {
		return "The operation timed out. Check your connection and try again."
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "network") {
		return "Check your network connection. You may be offline or behind a firewall."
	}

	return ""
}

// Common error constructors

// ErrUnknownStore creates an error for an unsupported --store value
func ErrUnknownStore(name string) *UserError {
	return &UserError{
		Message:    fmt.Sprintf("Unknown store: %q", name),
		Suggestion: "Use one of: sqlite, s3, memory (flag --store or TERMFOLIO_STORE).",
	}
}

// ErrStoreConfig creates an error for an incomplete store configuration
func ErrStoreConfig(store string, cause error) *UserError {
	e := &UserError{
		Message: fmt.Sprintf("Invalid %s store configuration", store),
		Cause:   cause,
	}
	switch store {
	case StoreS3:
		e.Suggestion = `Configure the bucket:
       export TERMFOLIO_S3_BUCKET=my-bucket
       export TERMFOLIO_S3_ENDPOINT=http://localhost:9000   # MinIO, optional
       export AWS_REGION=us-east-1`
	case StoreSQLite:
		e.Suggestion = "Pass --db <file> or set TERMFOLIO_DB."
	}
	return e
}

// ErrUnknownTheme creates an error for a theme that has no preset
func ErrUnknownTheme(name string) *UserError {
	return &UserError{
		Message:    fmt.Sprintf("Unknown theme: %q", name),
		Suggestion: "Available themes: " + strings.Join(AvailableThemes(), ", "),
	}
}

// ErrLogging creates an error for a log file that cannot be opened
func ErrLogging(path string, cause error) *UserError {
	return &UserError{
		Message:    fmt.Sprintf("Failed to open log file: %s", path),
		Cause:      cause,
		Suggestion: "Set TERMFOLIO_LOG_PATH to a writable file, or to an empty value to disable logging.",
	}
}

// ErrFilesystem creates an error for a filesystem that could not be started
func ErrFilesystem(cause error) *UserError {
	return &UserError{
		Message:    "Failed to start the virtual filesystem",
		Cause:      cause,
		Suggestion: "Try --store memory to run without persistence.",
	}
}

// ErrBadCwd creates an error for an exec starting directory that does not exist
func ErrBadCwd(path string) *UserError {
	return &UserError{
		Message:    fmt.Sprintf("No such directory: %s", path),
		Suggestion: "Pass --cwd a directory that exists, such as / or ~.",
	}
}
