package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is the closed set of account roles. Values are the wire strings carried in tokens.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCentral  Role = "central"
	RoleRifero   Role = "rifero"
	RoleVendedor Role = "vendedor"
)

var allRoles = []Role{RoleAdmin, RoleCentral, RoleRifero, RoleVendedor}

// OfficeRoles are the back-office roles that may read across tenants.
var OfficeRoles = []Role{RoleAdmin, RoleCentral}

// AllRoles returns every valid role.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole normalizes raw (trim, case-fold) and maps it onto the enumeration.
func ParseRole(raw string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, r := range allRoles {
		if r == candidate {
			return r, nil
		}
	}

	return "", ErrInvalidRole
}

// TenantScoped reports whether the role only ever sees its own banca.
func (r Role) TenantScoped() bool {
	return r == RoleVendedor
}

func (r Role) String() string {
	return string(r)
}

// RoleStrings renders roles for validation rules and docs.
func RoleStrings(roles ...Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

type Account struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Password  string       `json:"-"`
	Name      string       `json:"nombre"`
	Role      Role         `json:"rol"`
	Active    bool         `json:"activo"`
	TenantID  *string      `json:"banca_id,omitempty"`
	Tenants   []TenantLink `json:"bancas,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// AccountPatch carries the optional fields of an account update. Nil means unchanged.
type AccountPatch struct {
	Name     *string
	Role     *Role
	Active   *bool
	Password *string
}

func (p AccountPatch) Empty() bool {
	return p.Name == nil && p.Role == nil && p.Active == nil && p.Password == nil
}

// TenantLink assigns an account to a banca with a commission per modality.
type TenantLink struct {
	TenantID   string  `json:"banca_id"`
	TenantName string  `json:"banca,omitempty"`
	Modality   string  `json:"modalidad"`
	GrossPct   float64 `json:"bruto"`
	NetPct     float64 `json:"neto"`
}

// NormalizeUsername is the canonical form used for storage and lookup.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
