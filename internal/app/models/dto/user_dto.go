package dto

// CreateUserRequest provisions a student or instructor account (secretary only).
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email" example:"jane@school.edu.tr"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,min=2,max=100"`
	LastName  string `json:"lastName" binding:"required,min=2,max=100"`
	RoleType  string `json:"roleType" binding:"required,oneof=STUDENT INSTRUCTOR" example:"STUDENT"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RoleType  string `json:"roleType"`
	IsActive  bool   `json:"isActive"`
}
