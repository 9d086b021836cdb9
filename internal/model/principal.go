package model

// Role is the authorization tier of a principal, fixed at creation.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Principal is the auth-facing view shared by users and admins. Login,
// refresh and logout operate on this shape regardless of which table the
// record lives in, so the auth core never touches table-specific fields.
//
// Fields:
//  ID           – primary key in the owning table.
//  Email        – unique email across users AND admins.
//  Contact      – unique contact number across users AND admins.
//  PasswordHash – bcrypt digest; never serialized.
//  Role         – USER or ADMIN, mirrors the owning table.
//  RefreshToken – currently stored refresh token, empty when logged out.
type Principal struct {
	ID           uint64
	Email        string
	Contact      string
	PasswordHash string
	Role         Role
	RefreshToken string
}
