package models

import "time"

type Project struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	Code       string     `gorm:"uniqueIndex;not null" json:"code"`
	ClientName string     `json:"clientName"`
	Status     string     `gorm:"not null;default:active" json:"status"` // active, closed, on_hold
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// ProjectMember carries a project-member role (pm/lead/member/advisor),
// which is a different enumeration from the system roles on User and is
// normalized by lower-casing.
type ProjectMember struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  string    `gorm:"type:uuid;index;not null" json:"projectId"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"userId"`
	Role       string    `gorm:"not null" json:"role"`
	Allocation int       `gorm:"not null;default:100" json:"allocation"` // percent
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ResourceAssignment struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;index;not null" json:"userId"`
	ProjectID    string    `gorm:"type:uuid;index;not null" json:"projectId"`
	HoursPerWeek int       `gorm:"not null;default:40" json:"hoursPerWeek"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type TimesheetEntry struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"userId"`
	ProjectID  string    `gorm:"type:uuid;index;not null" json:"projectId"`
	WorkDate   time.Time `gorm:"not null" json:"workDate"`
	Hours      float64   `gorm:"not null" json:"hours"`
	Note       string    `json:"note"`
	Status     string    `gorm:"not null;default:submitted;index" json:"status"` // submitted, approved, rejected
	ApproverID *string   `gorm:"type:uuid" json:"approverId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Notification struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string     `gorm:"type:uuid;index;not null" json:"userId"`
	Type      string     `gorm:"not null" json:"type"`
	Title     string     `gorm:"not null" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	Metadata  JSONB      `gorm:"type:jsonb" json:"metadata"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type KnowledgeArticle struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  string    `gorm:"type:uuid;index;not null" json:"authorId"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Tags      JSONB     `gorm:"type:jsonb" json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RevenueRecord struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID string    `gorm:"type:uuid;index;not null" json:"projectId"`
	Month     string    `gorm:"size:7;not null;index" json:"month"` // YYYY-MM
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}
