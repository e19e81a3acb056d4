package entity

import "time"

type User struct {
	Id          int64
	Email       string
	PhoneNumber string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
