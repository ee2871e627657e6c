package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy

	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// sanitizeMessage strips every tag from a validation message; messages cross
// the server boundary and may echo user input.
func sanitizeMessage(raw string) string {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(messagePolicy.Sanitize(raw))
}

// sanitizeHelp allows a small inline subset in caller-authored help text.
func sanitizeHelp(raw string) string {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("a", "abbr", "b", "code", "em", "i", "small", "strong")
		policy.AllowAttrs("href", "title", "rel", "target").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		helpPolicy = policy
	})
	return strings.TrimSpace(helpPolicy.Sanitize(raw))
}
