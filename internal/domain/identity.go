package domain

import (
	"strings"
	"time"
)

// Identity is the request-scoped view of a verified session token.
type Identity struct {
	AccountID string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"nombre"`
	Role      Role      `json:"rol"`
	TenantID  *string   `json:"banca_id"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Tenant returns the token's banca id, or "" when the account has none.
func (i Identity) Tenant() string {
	if i.TenantID == nil {
		return ""
	}
	return *i.TenantID
}

// EffectiveTenant resolves the banca a request operates on. Tenant-scoped roles
// always get their own banca and requested is ignored.
func (i Identity) EffectiveTenant(requested string) string {
	if i.Role.TenantScoped() {
		return i.Tenant()
	}

	return strings.TrimSpace(requested)
}

// OwnsTenant reports whether a row stamped with tenantID is visible to the caller.
func (i Identity) OwnsTenant(tenantID string) bool {
	if !i.Role.TenantScoped() {
		return true
	}

	own := i.Tenant()
	return own != "" && own == tenantID
}

// HasRole reports whether the identity's role is one of roles.
func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
