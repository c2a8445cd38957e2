// File: internal/whitelist/whitelist.go
package whitelist

import (
	"strings"

	"github.com/Schwifty101/arco-backend/internal/config"
)

// Lookup answers whether an email is pre-authorized for the admin role. It is
// a pure capability: callers never learn where the list is sourced from.
type Lookup interface {
	IsAdmin(email string) bool
}

// EnvLookup is a Lookup backed by the configured email list.
type EnvLookup struct {
	emails map[string]struct{}
}

var _ Lookup = (*EnvLookup)(nil)

// NewEnvLookup builds a Lookup from configuration. Entries are matched
// case-insensitively with surrounding whitespace ignored.
func NewEnvLookup(cfg *config.Config) *EnvLookup {
	emails := make(map[string]struct{}, len(cfg.AdminWhitelistEmails))
	for _, email := range cfg.AdminWhitelistEmails {
		normalized := strings.ToLower(strings.TrimSpace(email))
		if normalized != "" {
			emails[normalized] = struct{}{}
		}
	}
	return &EnvLookup{emails: emails}
}

func (l *EnvLookup) IsAdmin(email string) bool {
	_, ok := l.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
