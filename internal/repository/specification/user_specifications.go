package specification

import (
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// UserContactSearch matches users whose email OR phone number contains Query.
// LIKE is case sensitive on Postgres and ASCII case insensitive on SQLite.
type UserContactSearch struct {
	Query string
}

func (s UserContactSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(s.Query) + "%"
	return db.Where("(email LIKE ? ESCAPE '\\' OR phone_number LIKE ? ESCAPE '\\')", pattern, pattern)
}
