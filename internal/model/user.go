// Package model contains the database entities used by the application
package model

const (
	RoleAdmin  = "admin"
	RoleExpert = "expert"
	RoleUser   = "user"
)

type User struct {
	ID         string `gorm:"primaryKey"`
	Email      string `gorm:"uniqueIndex; not null"`
	Password   string `gorm:"not null"`
	Role       string `gorm:"not null"`
	IsVerified bool   `gorm:"default:false"`
}
