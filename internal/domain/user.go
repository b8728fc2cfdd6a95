package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	UserID          string     `json:"id" dynamodbav:"user_id"`
	Email           string     `json:"email" dynamodbav:"email"`
	DisplayName     string     `json:"display_name" dynamodbav:"display_name"`
	BeawareUsername *string    `json:"beaware_username" dynamodbav:"beaware_username"`
	PasswordHash    string     `json:"-" dynamodbav:"password_hash"`
	Role            string     `json:"role" dynamodbav:"role"`
	Enable          bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt       time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

type CheckUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type UpdateUsernameRequest struct {
	Email           string `json:"email" validate:"required,email"`
	BeawareUsername string `json:"beawareUsername" validate:"required"`
}
