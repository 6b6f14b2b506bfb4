package bms

import (
	"regexp"
	"strings"

	"bms_proxy/internal/models"
)

const (
	primaryCookie   = "JSESSIONID"
	secondaryCookie = "DWRSESSIONID"
)

// Matches NAME=value, NAME = "value" and ;name=value (URL rewriting).
var tokenPatterns = map[string]*regexp.Regexp{
	primaryCookie:   tokenAssignment(primaryCookie),
	secondaryCookie: tokenAssignment(secondaryCookie),
}

func tokenAssignment(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + name + `\s*=\s*['"]?([^'";&?#\s<>]+)`)
}

// tokenFromReply looks for name in Set-Cookie, then in the body, then in
// the Location header. First match wins.
func tokenFromReply(r *reply, name string) string {
	for _, c := range r.cookies {
		if strings.EqualFold(c.Name, name) && c.Value != "" {
			return c.Value
		}
	}
	re := tokenPatterns[name]
	if m := re.FindSubmatch(r.body); m != nil {
		return string(m[1])
	}
	if m := re.FindStringSubmatch(r.header.Get("Location")); m != nil {
		return m[1]
	}
	return ""
}

func sessionFromReply(r *reply) models.Session {
	return models.Session{
		Primary:   tokenFromReply(r, primaryCookie),
		Secondary: tokenFromReply(r, secondaryCookie),
	}
}

// cookieHeader renders the Cookie request header for a session.
func cookieHeader(s models.Session) string {
	h := primaryCookie + "=" + s.Primary
	if s.Secondary != "" {
		h += "; " + secondaryCookie + "=" + s.Secondary
	}
	return h
}
