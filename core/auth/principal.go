package auth

import "strconv"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Principal is the authenticated caller: either an AdminPrincipal or a StudentPrincipal.
type Principal interface {
	Role() Role
	Subject() string
	principal()
}

type AdminPrincipal struct {
	ID       int
	Username string
}

func (p AdminPrincipal) Role() Role      { return RoleAdmin }
func (p AdminPrincipal) Subject() string { return strconv.Itoa(p.ID) }
func (AdminPrincipal) principal()        {}

type StudentPrincipal struct {
	ID          int
	StudentCode string
}

func (p StudentPrincipal) Role() Role      { return RoleStudent }
func (p StudentPrincipal) Subject() string { return strconv.Itoa(p.ID) }
func (StudentPrincipal) principal()        {}

// IsAdmin reports whether p is an authenticated admin. p may be nil (anonymous).
func IsAdmin(p Principal) bool {
	_, ok := p.(AdminPrincipal)
	return ok
}
