package errors

import (
	"strings"
	"unicode"
)

const (
	maxFunctionNameLength = 1024
	maxTagLength          = 256
)

// ValidateFunctionName validates a function registry key.
//
// Names are opaque to the registry, so the rules only exclude values that
// would break rendering or persistence:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 1024 bytes
//
// Callers that need overloading mangle names before registering them.
func ValidateFunctionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "function name cannot be empty")
	}
	if len(name) > maxFunctionNameLength {
		return New(ErrCodeInvalidName, "function name too long (max %d characters)", maxFunctionNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "function name contains invalid control characters")
		}
	}
	return nil
}

// ValidateTag validates a view tag. Tags are map keys shared by every
// view attached to an element, so they must be non-empty and free of
// whitespace.
func ValidateTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidInput, "tag cannot be empty")
	}
	if len(tag) > maxTagLength {
		return New(ErrCodeInvalidInput, "tag too long (max %d characters)", maxTagLength)
	}
	if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
		return New(ErrCodeInvalidInput, "tag %q contains whitespace", tag)
	}
	return nil
}

// ValidatePath validates a local file path passed on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
