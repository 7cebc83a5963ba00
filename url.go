package sitewalk

import (
	"net/url"
	"regexp"
	"strings"
)

// trackingParams is the denylist of analytics/advertising query
// parameters that are safe to discard without altering page identity.
// Keys are compared lowercased; any "utm_"-prefixed key is also dropped.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"dclid":   true,
	"msclkid": true,
	"twclid":  true,
	"yclid":   true,
	"igshid":  true,
	"mc_cid":  true,
	"mc_eid":  true,
	"_ga":     true,
	"_gl":     true,
	"__hstc":  true,
	"__hssc":  true,
	"__hsfp":  true,
}

// NormalizeURL resolves a URL reference against a base URL and returns
// an absolute URL.
//
// Path-absolute references ("/about") resolve against the base's origin.
// Already-absolute URLs are returned unchanged. Anything else resolves
// as a relative reference against base + "/". Unparseable input is
// returned unchanged.
func NormalizeURL(rawURL, baseURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}

	if !strings.HasPrefix(rawURL, "/") {
		baseURL += "/"
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return rawURL
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return base.ResolveReference(ref).String()
}

// StripTrackingParams removes known tracking query parameters from a
// URL, preserving the relative order of the remaining parameters and
// any fragment. If every parameter is a tracker, the "?" is removed as
// well. Malformed URLs are returned unchanged.
func StripTrackingParams(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.RawQuery == "" {
		return rawURL
	}

	var kept []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		key := pair
		if idx := strings.Index(pair, "="); idx != -1 {
			key = pair[:idx]
		}
		key = strings.ToLower(key)
		if trackingParams[key] || strings.HasPrefix(key, "utm_") {
			continue
		}
		kept = append(kept, pair)
	}

	u.RawQuery = strings.Join(kept, "&")
	return u.String()
}

// IsSameHost returns true if both URLs share an identical network
// location (host and port), or if rawURL has no network location at all
// (i.e. is relative). Subdomains are distinct hosts.
func IsSameHost(rawURL, baseURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return u.Host == base.Host || u.Host == ""
}

// ExtractPath returns the path component of a URL, ignoring query and
// fragment. A bare origin ("https://example.com") yields "/".
func ExtractPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// MatchesPattern reports whether a URL path matches a glob-style
// pattern. The only wildcard is "*", which matches any run of
// characters including "/". Matching is anchored: the pattern must
// cover the entire path.
func MatchesPattern(path, pattern string) bool {
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(path)
}
