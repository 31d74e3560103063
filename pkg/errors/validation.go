package errors

import (
	"strings"
	"unicode"
)

// ValidateDesignName checks a name that ends up as a DEF/LEF identifier
// (fabric, tile template or cell alias). Such names cannot be empty and
// may not contain whitespace, control characters or the DEF statement
// terminator.
func ValidateDesignName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "%s name cannot be empty", kind)
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidName, "%s name too long (max 256 characters)", kind)
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s name %q contains whitespace or control characters", kind, name)
		}
	}
	if strings.ContainsAny(name, ";()*\"") {
		return New(ErrCodeInvalidName, "%s name %q contains reserved characters", kind, name)
	}
	return nil
}

// ValidateOutputName validates an output base name. It must be a plain
// file name without directory components.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "output name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "output name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidName, "output name %q is not a file name", name)
	}
	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "output name contains invalid characters")
		}
	}
	return nil
}
