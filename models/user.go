package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Address is a saved delivery address on a customer profile.
type Address struct {
	Label        string   `json:"label,omitempty"`
	Address      string   `json:"address"`
	District     string   `json:"district,omitempty"`
	Province     string   `json:"province,omitempty"`
	PostalCode   string   `json:"postalCode,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	ContactName  string   `json:"contactName,omitempty"`
	ContactPhone string   `json:"contactPhone,omitempty"`
	IsDefault    bool     `json:"isDefault"`
}

// User represents a customer or back-office account.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Phone     string     `gorm:"not null" json:"phone"`
	Role      string     `gorm:"not null;default:'customer'" json:"role"` // customer, admin, manager
	Addresses []Address  `gorm:"serializer:json" json:"addresses,omitempty"`
	IsActive  bool       `gorm:"not null" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeSave hashes the password whenever it is set in plain text.
// Bcrypt hashes always start with "$2", so rehashing is skipped on
// updates that carry the stored hash through.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" || len(u.Password) >= 2 && u.Password[:2] == "$2" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// MatchPassword compares a plain-text password against the stored hash.
func (u *User) MatchPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
