package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateURL validates a drill-through URL before it is handed to the host.
// Absolute URLs must use http or https; relative URLs (the usual shape of
// host-generated explore links) are accepted as long as they are rooted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "URL contains control characters")
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "parse URL %q", rawURL)
	}

	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return New(ErrCodeInvalidURL, "URL must use http or https scheme")
		}
		return nil
	}

	if !strings.HasPrefix(rawURL, "/") {
		return New(ErrCodeInvalidURL, "relative URL must start with /")
	}
	return nil
}

// ValidateFieldName validates a query field name such as "orders.region".
func ValidateFieldName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "field name cannot be empty")
	}

	const maxFieldLength = 256
	if len(name) > maxFieldLength {
		return New(ErrCodeInvalidInput, "field name too long (max %d characters)", maxFieldLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "field name contains invalid control characters")
		}
	}
	return nil
}
