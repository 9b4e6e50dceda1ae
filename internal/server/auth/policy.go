package auth

import "strings"

// AdminPolicy decides whether an identity may use the admin surface. It is
// injected so deployments can swap the rule without touching handlers.
type AdminPolicy func(email string) bool

// AllowlistPolicy grants admin to the listed emails, compared
// case-insensitively. An empty list means nobody is an admin.
func AllowlistPolicy(emails []string) AdminPolicy {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}
	return func(email string) bool {
		if email == "" {
			return false
		}
		_, ok := allowed[strings.ToLower(email)]
		return ok
	}
}
