package domain

import "time"

type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(64);not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password;not null"`
	FirstName    string    `json:"firstName" gorm:"type:varchar(100)"`
	LastName     string    `json:"lastName" gorm:"type:varchar(100)"`
	Address      string    `json:"address" gorm:"type:varchar(255)"`
	City         string    `json:"city" gorm:"type:varchar(100)"`
	PostalCode   string    `json:"postalCode" gorm:"type:varchar(20)"`
	Phone        string    `json:"phone" gorm:"type:varchar(32)"`
	IsAdmin      bool      `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// Identity returns the caller identity for this user.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, IsAdmin: u.IsAdmin}
}

// CustomerSummary is the part of a user shown next to an order in the back-office.
type CustomerSummary struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u *User) Summary() *CustomerSummary {
	return &CustomerSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
