// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string    `json:"-" gorm:"not null;size:255"`
	Bio       string    `json:"bio" gorm:"size:500"`
	Avatar    *string   `json:"avatar" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts          []Post          `json:"-" gorm:"foreignKey:UserID"`
	SocialAccounts []SocialAccount `json:"-" gorm:"foreignKey:UserID"`
}

// UserResponse is the public view of a user returned by the auth endpoints.
type UserResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Bio    string  `json:"bio"`
	Avatar *string `json:"avatar"`
}

func (u User) ToResponse() UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Bio:    u.Bio,
		Avatar: u.Avatar,
	}
}
