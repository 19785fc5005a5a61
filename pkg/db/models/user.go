package models

import (
	"strings"
	"time"
)

// User is a platform account (usuarios); customers and resellers both have one.
type User struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	FirstName string    `gorm:"column:nome;not null;default:''"`
	LastName  string    `gorm:"column:sobrenome;not null;default:''"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:idx_usuarios_email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "usuarios" }

// FullName joins first and last name, trimming the gaps either may leave.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
