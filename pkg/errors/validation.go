package errors

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	maxIDLength   = 256
	maxPathLength = 500
)

// ValidateGroupID validates a group identifier before it is used as a path
// segment or database key. It rejects anything that could escape the group
// directory.
func ValidateGroupID(id string) error {
	if err := validateSegment(id); err != nil {
		return New(ErrCodeInvalidInput, "group id: %s", err.Message)
	}
	return nil
}

// ValidateDocumentID applies the same rules to note identifiers.
func ValidateDocumentID(id string) error {
	if err := validateSegment(id); err != nil {
		return New(ErrCodeInvalidDocument, "note id: %s", err.Message)
	}
	return nil
}

func validateSegment(s string) *Error {
	if s == "" {
		return New(ErrCodeInvalidInput, "cannot be empty")
	}
	if len(s) > maxIDLength {
		return New(ErrCodeInvalidInput, "too long (max %d characters)", maxIDLength)
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return New(ErrCodeInvalidInput, "contains control characters")
	}
	if s == "." || s == ".." {
		return New(ErrCodeInvalidInput, "cannot be %q", s)
	}
	if strings.ContainsAny(s, `/\`) {
		return New(ErrCodeInvalidInput, "cannot contain path separators")
	}
	return nil
}

// ValidatePath checks a slash-separated path relative to a vault root: it
// must be non-empty, at most 500 bytes, free of control characters and
// backslashes, relative, and must not step out through "..".
func ValidatePath(path string) error {
	reject := func(why string, args ...any) error {
		return New(ErrCodeInvalidPath, "path %s", fmt.Sprintf(why, args...))
	}
	switch {
	case path == "":
		return reject("is empty")
	case len(path) > maxPathLength:
		return reject("exceeds %d bytes", maxPathLength)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return reject("contains control characters")
	case strings.ContainsRune(path, '\\'):
		return reject("contains a backslash")
	case strings.HasPrefix(path, "/"):
		return reject("is absolute")
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return reject("leaves the vault root")
		}
	}
	return nil
}

// ValidateURL checks that rawURL is non-empty and uses one of the given
// schemes, e.g. ValidateURL(u, "redis", "rediss").
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "empty URL")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %v", schemes)
}
