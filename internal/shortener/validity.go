package shortener

import (
	"net/url"
	"regexp"
)

// Validity is the outcome of a syntactic check. It carries the reason for a
// failed check so callers can decide how to surface it.
type Validity struct {
	OK     bool
	Reason string
}

// Valid returns a successful validity.
func Valid() Validity {
	return Validity{OK: true}
}

// Invalid returns a failed validity with the given reason.
func Invalid(reason string) Validity {
	return Validity{Reason: reason}
}

// domainPattern matches a DNS-style label sequence with an alphabetic TLD.
var domainPattern = regexp.MustCompile(
	`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,63}$`,
)

// CheckURL reports whether s is a well-formed absolute http(s) URL.
// Purely syntactic; no network access.
func CheckURL(s string) Validity {
	if s == "" {
		return Invalid("empty url")
	}

	u, err := url.Parse(s)
	if err != nil {
		return Invalid("malformed url")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return Invalid("scheme must be http or https")
	}

	if u.Host == "" {
		return Invalid("missing host")
	}

	return Valid()
}

// CheckDomain reports whether s is a well-formed domain name, usable as a
// vanity brand.
func CheckDomain(s string) Validity {
	if s == "" {
		return Invalid("empty domain")
	}

	if len(s) > 253 {
		return Invalid("domain too long")
	}

	if !domainPattern.MatchString(s) {
		return Invalid("malformed domain")
	}

	return Valid()
}
