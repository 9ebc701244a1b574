package models

import "time"

// User defines the user model based on the 'users' table. Students, instructors
// and secretaries all share this table, distinguished by role_type.
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"user@school.edu.tr"`
	Password  string    `json:"-" db:"password"`
	FirstName string    `json:"firstName" db:"first_name" example:"John"`
	LastName  string    `json:"lastName" db:"last_name" example:"Doe"`
	RoleType  RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns the display name used in notifications.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
