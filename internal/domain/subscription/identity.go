package subscription

import (
	"net/url"
	"regexp"
	"strings"
)

// The two backends name the same subscription differently: Loop uses a
// compact native id ("sub_482915723"), Shopify uses a global URI with a
// numeric suffix ("gid://shopify/SubscriptionContract/482915723"). Both
// translators are total: an input that matches no known shape is returned
// unchanged so the remote system can answer with a proper not-found instead
// of this package guessing.

var (
	loopIDPattern      = regexp.MustCompile(`^sub_(\d+)$`)
	contractGIDPattern = regexp.MustCompile(`^gid://shopify/SubscriptionContract/(\d+)(?:\?.*)?$`)
	numericPattern     = regexp.MustCompile(`^\d+$`)
)

// ToLoopID translates any recognized subscription identifier into Loop's
// native format. Pure, total and idempotent.
func ToLoopID(anyID string) string {
	id := strings.TrimSpace(anyID)

	if loopIDPattern.MatchString(id) {
		return id
	}
	if m := contractGIDPattern.FindStringSubmatch(id); m != nil {
		return "sub_" + m[1]
	}
	// Contract GIDs arrive percent-encoded when they were round-tripped
	// through a URL path segment.
	if strings.Contains(id, "%") {
		if decoded, err := url.QueryUnescape(id); err == nil {
			if m := contractGIDPattern.FindStringSubmatch(decoded); m != nil {
				return "sub_" + m[1]
			}
		}
	}
	if numericPattern.MatchString(id) {
		return "sub_" + id
	}
	return anyID
}

// ToContractGID translates any recognized subscription identifier into the
// Shopify subscription contract GID. Pure, total and idempotent.
func ToContractGID(anyID string) string {
	id := strings.TrimSpace(anyID)

	if contractGIDPattern.MatchString(id) {
		return id
	}
	if strings.Contains(id, "%") {
		if decoded, err := url.QueryUnescape(id); err == nil {
			if contractGIDPattern.MatchString(decoded) {
				return decoded
			}
		}
	}
	if m := loopIDPattern.FindStringSubmatch(id); m != nil {
		return "gid://shopify/SubscriptionContract/" + m[1]
	}
	if numericPattern.MatchString(id) {
		return "gid://shopify/SubscriptionContract/" + id
	}
	return anyID
}
