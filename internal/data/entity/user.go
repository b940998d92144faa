package entity

type UserRole string

const (
	RolePlanner UserRole = "planner"
	RoleHotel   UserRole = "hotel"
	RoleGuest   UserRole = "guest"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	Base
	Name  string   `db:"name"`
	Email string   `db:"email"`
	Phone string   `db:"phone"`
	Role  UserRole `db:"role"`
}
