package shortener

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength is the longest accepted destination URL, inclusive.
const MaxURLLength = 2048

// maxSuspiciousChars caps how many '%' or '@' characters a URL may carry
// before it is treated as an obfuscation attempt.
const maxSuspiciousChars = 20

// embeddedSchemes are schemes that must not appear anywhere in the URL past
// its own scheme; prefixing an http URL with one is a common redirect abuse.
var embeddedSchemes = []string{"javascript:", "data:", "vbscript:", "file:"}

// ValidationError describes why a submitted URL was rejected. It is
// client-caused and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid url: %s", e.Reason)
}

// Validator checks destination URLs before shortening.
type Validator struct {
	blockedDomains map[string]struct{}
}

// NewValidator creates a validator rejecting the given domains on top of the
// built-in defaults. Matching is by host, including subdomains.
func NewValidator(blockedDomains []string) *Validator {
	blocked := make(map[string]struct{}, len(blockedDomains))
	for _, d := range blockedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			blocked[d] = struct{}{}
		}
	}

	return &Validator{blockedDomains: blocked}
}

// ValidateURL checks a destination URL, returning a *ValidationError when it
// must be rejected. The URL string itself is never modified: validation does
// not normalize.
func (v *Validator) ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Reason: "url is empty"}
	}

	if len(rawURL) > MaxURLLength {
		return &ValidationError{Reason: fmt.Sprintf("url exceeds %d characters", MaxURLLength)}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Reason: "url is not parseable"}
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return &ValidationError{Reason: "only http and https schemes are allowed"}
	}

	if u.Hostname() == "" {
		return &ValidationError{Reason: "url has no host"}
	}

	if v.isBlocked(u.Hostname()) {
		return &ValidationError{Reason: "destination domain is blocked"}
	}

	if reason, ok := suspicious(rawURL); ok {
		return &ValidationError{Reason: reason}
	}

	return nil
}

func (v *Validator) isBlocked(host string) bool {
	host = strings.ToLower(host)

	if _, ok := v.blockedDomains[host]; ok {
		return true
	}

	// Subdomains of a blocked domain are blocked too.
	for domain := range v.blockedDomains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	return false
}

func suspicious(rawURL string) (string, bool) {
	lower := strings.ToLower(rawURL)

	// The URL already passed the http(s) scheme check, so any occurrence of
	// these schemes sits in the payload.
	for _, scheme := range embeddedSchemes {
		if strings.Contains(lower, scheme) {
			return "url embeds a script or data scheme", true
		}
	}

	if strings.Count(rawURL, "%") > maxSuspiciousChars {
		return "url contains excessive percent-encoding", true
	}

	if strings.Count(rawURL, "@") > maxSuspiciousChars {
		return "url contains excessive '@' characters", true
	}

	return "", false
}
