package models

import "time"

// Parasol is the domain-design documentation model: a Service groups
// BusinessCapabilities, which group BusinessOperations, which group
// UseCases. Design documents hang off Services and UseCases. For the
// specification documents, the Markdown Content field is authoritative;
// the JSON-encoded derived columns are advisory projections that may
// lag behind Content and are parsed leniently on read.

type Service struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string `json:"displayName"`
	Description string `gorm:"type:text" json:"description"`
	// Integration design lives inline on the service row, unlike the
	// other specification documents which get their own tables.
	IntegrationSpecification string    `gorm:"type:text" json:"integrationSpecification"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

type BusinessCapability struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID   string    `gorm:"type:uuid;index;not null" json:"serviceId"`
	Name        string    `gorm:"not null" json:"name"`
	Category    string    `gorm:"not null;default:Core" json:"category"` // Core, Supporting, Generic
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BusinessOperation struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	CapabilityID string    `gorm:"type:uuid;index;not null" json:"capabilityId"`
	ServiceID    string    `gorm:"type:uuid;index;not null" json:"serviceId"` // denormalized from the capability
	Name         string    `gorm:"not null" json:"name"`
	Pattern      string    `json:"pattern"` // workflow pattern tag
	Design       string    `gorm:"type:text" json:"design"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UseCase struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	OperationID  string    `gorm:"type:uuid;index;not null" json:"operationId"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type PageDefinition struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UseCaseID   string    `gorm:"type:uuid;uniqueIndex;not null" json:"useCaseId"`
	DisplayName string    `json:"displayName"`
	Content     string    `gorm:"type:text" json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RobustnessDiagram struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UseCaseID string    `gorm:"type:uuid;uniqueIndex;not null" json:"useCaseId"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type APISpecification struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID  string `gorm:"type:uuid;uniqueIndex;not null" json:"serviceId"`
	Version    string `gorm:"not null;default:1.0.0" json:"version"`
	BaseURL    string `json:"baseUrl"`
	AuthMethod string `json:"authMethod"`
	Content    string `gorm:"type:text" json:"content"`
	// JSON-encoded arrays, possibly stale relative to Content.
	Endpoints  string    `gorm:"type:text" json:"-"`
	ErrorCodes string    `gorm:"type:text" json:"-"`
	RateLimits string    `gorm:"type:text" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type DatabaseDesign struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID string `gorm:"type:uuid;uniqueIndex;not null" json:"serviceId"`
	DBMS      string `gorm:"not null;default:PostgreSQL" json:"dbms"`
	Content   string `gorm:"type:text" json:"content"`
	// JSON-encoded arrays, possibly stale relative to Content.
	Tables      string    `gorm:"type:text" json:"-"`
	Indexes     string    `gorm:"type:text" json:"-"`
	Constraints string    `gorm:"type:text" json:"-"`
	ERDiagram   string    `gorm:"type:text" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DomainLanguage struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID string `gorm:"type:uuid;uniqueIndex;not null" json:"serviceId"`
	Version   string `gorm:"not null;default:1.0.0" json:"version"`
	Content   string `gorm:"type:text" json:"content"`
	// JSON-encoded arrays, possibly stale relative to Content.
	Entities     string    `gorm:"type:text" json:"-"`
	ValueObjects string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
