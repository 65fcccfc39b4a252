package models

import "time"

// System roles. Comparison against these names is case-insensitive and
// lives in internal/auth; the table is the persisted catalog.
type Role struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type Organization struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	ID             string        `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string        `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string        `gorm:"not null" json:"-"`
	Name           string        `gorm:"not null" json:"name"`
	RoleID         int           `gorm:"not null;index" json:"roleId"`
	Role           *Role         `json:"role,omitempty"`
	OrganizationID *string       `gorm:"type:uuid;index" json:"organizationId,omitempty"`
	Organization   *Organization `json:"organization,omitempty"`
	IsActive       bool          `gorm:"not null;default:true" json:"isActive"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Session is a server-side login session. The opaque Token travels in
// the `session` cookie (or inside a bearer token's sid claim); ExpiresAt
// only ever moves forward until the row is deleted.
type Session struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index;not null" json:"userId"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
