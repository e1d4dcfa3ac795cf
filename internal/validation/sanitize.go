package validation

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const DateLayout = "2006-01-02"

var strictPolicy = bluemonday.StrictPolicy()

// CleanString trims s, strips every HTML tag and escapes the remaining
// text so it is safe to render.
func CleanString(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(strings.TrimSpace(s)))
}

// CleanOptional cleans *p in place. A value that cleans to "" is treated
// as absent.
func CleanOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := CleanString(*p)
	if v == "" {
		return nil
	}
	return &v
}

// TrimOptional is CleanOptional without HTML handling, for emails and
// dates which have their own format rules.
func TrimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeEmail trims and lowercases an address so uniqueness and
// login lookups do not depend on case.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CleanList trims entries and drops empty ones. Entries are URLs or
// object paths and are stored as given; the safeurl rule decides which
// are acceptable.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsSafeURL reports whether s is an absolute http(s) URL with a host or
// a relative path. Other schemes such as javascript: and data: and
// protocol-relative "//host" links are rejected.
func IsSafeURL(s string) bool {
	if s == "" || strings.HasPrefix(s, "//") || strings.Contains(s, `\`) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return u.Host == ""
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isSafeURL(fl validator.FieldLevel) bool {
	return IsSafeURL(fl.Field().String())
}

// IsDate reports whether s is a calendar date written exactly as YYYY-MM-DD.
func IsDate(s string) bool {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return d.Format(DateLayout) == s
}

func isISODate(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

// OneOf returns value when it is in allowed, else fallback.
func OneOf(value string, allowed []string, fallback string) string {
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}
