package domain

import "github.com/shopspring/decimal"

// Role is the access level attached to a user account.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleAdmin
}

type User struct {
	ID        int64           `db:"id" json:"id"`
	Username  string          `db:"username" json:"username"`
	Password  string          `db:"password" json:"-"`
	Role      Role            `db:"role" json:"role"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt string          `db:"created_at" json:"created_at,omitempty"`
}
