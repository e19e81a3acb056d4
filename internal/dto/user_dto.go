package dto

import "p2p-chat-be/internal/entity"

// UserResponse is a user record annotated with live presence.
type UserResponse struct {
	Id          int64  `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
	Online      bool   `json:"online"`
}

func NewUserResponse(u *entity.User, online bool) UserResponse {
	return UserResponse{
		Id:          u.Id,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Name:        u.Name,
		Online:      online,
	}
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=8,max=11"`
}

type LoginRequest struct {
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=8,max=11"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	Id          int64  `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
}

type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}
