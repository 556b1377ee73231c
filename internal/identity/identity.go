// Package identity resolves the acting user and their role for every
// request. Services receive an explicit Actor value instead of reading
// ambient authentication state, so tests can inject arbitrary actors.
package identity

import "strings"

// Actor is the entity performing an action: anonymous, authenticated, or
// (per the policy) an administrator.
type Actor struct {
	UserID uint
	Email  string
}

// Anonymous is the least-privileged actor. It is the fallback whenever
// authentication is absent or cannot be verified.
var Anonymous = Actor{}

// Authenticated reports whether the actor carries a verified identity.
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// Policy decides which actors hold the administrator role.
type Policy interface {
	IsAdmin(a Actor) bool
}

// AllowListPolicy grants admin to authenticated actors whose email appears
// in a configured allow-list. Matching is exact and case-sensitive.
type AllowListPolicy struct {
	emails map[string]struct{}
}

// NewAllowListPolicy builds a policy from a comma-separated email list.
// Entries are trimmed of surrounding whitespace but otherwise untouched.
func NewAllowListPolicy(list string) *AllowListPolicy {
	emails := make(map[string]struct{})
	for _, e := range strings.Split(list, ",") {
		e = strings.TrimSpace(e)
		if e != "" {
			emails[e] = struct{}{}
		}
	}
	return &AllowListPolicy{emails: emails}
}

// IsAdmin implements Policy.
func (p *AllowListPolicy) IsAdmin(a Actor) bool {
	if !a.Authenticated() {
		return false
	}
	_, ok := p.emails[a.Email]
	return ok
}
