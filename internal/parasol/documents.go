package parasol

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"consultdesk/internal/models"
)

// parseList decodes a JSON-encoded array column. A missing or malformed
// column degrades to an empty array: one bad derived field must never
// fail the whole read.
func parseList(raw string) []json.RawMessage {
	if raw == "" {
		return []json.RawMessage{}
	}
	var out []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []json.RawMessage{}
	}
	return out
}

// encodeList re-encodes a caller-supplied derived collection for
// storage. nil means "not supplied": the stored value is kept.
func encodeList(items []json.RawMessage) (string, bool) {
	if items == nil {
		return "", false
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// APISpecInput is a PUT body for the api-specification document.
// Content is required; derived collections are optional and stored
// re-encoded when present.
type APISpecInput struct {
	Content    string            `json:"content"`
	Version    string            `json:"version"`
	BaseURL    string            `json:"baseUrl"`
	AuthMethod string            `json:"authMethod"`
	Endpoints  []json.RawMessage `json:"endpoints"`
	ErrorCodes []json.RawMessage `json:"errorCodes"`
	RateLimits []json.RawMessage `json:"rateLimits"`
}

// APISpecView is the read shape: the canonical content plus best-effort
// parses of each derived column.
type APISpecView struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"serviceId"`
	Version    string    `json:"version"`
	BaseURL    string    `json:"baseUrl"`
	AuthMethod string    `json:"authMethod"`
	Content    string    `json:"content"`
	Parsed     APIParsed `json:"parsed"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type APIParsed struct {
	Endpoints  []json.RawMessage `json:"endpoints"`
	ErrorCodes []json.RawMessage `json:"errorCodes"`
	RateLimits []json.RawMessage `json:"rateLimits"`
}

// GetAPISpecification reads the service's api-specification document.
func (s *Store) GetAPISpecification(serviceID string) (*APISpecView, error) {
	var spec models.APISpecification
	if err := s.db.First(&spec, "service_id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &APISpecView{
		ID:         spec.ID,
		ServiceID:  spec.ServiceID,
		Version:    spec.Version,
		BaseURL:    spec.BaseURL,
		AuthMethod: spec.AuthMethod,
		Content:    spec.Content,
		Parsed: APIParsed{
			Endpoints:  parseList(spec.Endpoints),
			ErrorCodes: parseList(spec.ErrorCodes),
			RateLimits: parseList(spec.RateLimits),
		},
		CreatedAt: spec.CreatedAt,
		UpdatedAt: spec.UpdatedAt,
	}, nil
}

// UpsertAPISpecification updates the service's document in place or
// creates one with default metadata. Writing content alone never
// re-syncs the derived columns: they are allowed to go stale.
func (s *Store) UpsertAPISpecification(serviceID string, in APISpecInput) (*models.APISpecification, bool, error) {
	now := time.Now()
	var spec models.APISpecification
	err := s.db.First(&spec, "service_id = ?", serviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		spec = models.APISpecification{
			ID:         uuid.NewString(),
			ServiceID:  serviceID,
			Version:    "1.0.0",
			BaseURL:    "",
			AuthMethod: "Bearer",
			Content:    in.Content,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		applyAPISpecInput(&spec, in)
		if err := s.db.Create(&spec).Error; err != nil {
			return nil, false, err
		}
		return &spec, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	spec.Content = in.Content
	applyAPISpecInput(&spec, in)
	spec.UpdatedAt = now
	if err := s.db.Save(&spec).Error; err != nil {
		return nil, false, err
	}
	return &spec, false, nil
}

func applyAPISpecInput(spec *models.APISpecification, in APISpecInput) {
	if in.Version != "" {
		spec.Version = in.Version
	}
	if in.BaseURL != "" {
		spec.BaseURL = in.BaseURL
	}
	if in.AuthMethod != "" {
		spec.AuthMethod = in.AuthMethod
	}
	if v, ok := encodeList(in.Endpoints); ok {
		spec.Endpoints = v
	}
	if v, ok := encodeList(in.ErrorCodes); ok {
		spec.ErrorCodes = v
	}
	if v, ok := encodeList(in.RateLimits); ok {
		spec.RateLimits = v
	}
}

type DatabaseDesignInput struct {
	Content     string            `json:"content"`
	DBMS        string            `json:"dbms"`
	Tables      []json.RawMessage `json:"tables"`
	Indexes     []json.RawMessage `json:"indexes"`
	Constraints []json.RawMessage `json:"constraints"`
	ERDiagram   []json.RawMessage `json:"erDiagram"`
}

type DatabaseDesignView struct {
	ID        string         `json:"id"`
	ServiceID string         `json:"serviceId"`
	DBMS      string         `json:"dbms"`
	Content   string         `json:"content"`
	Parsed    DatabaseParsed `json:"parsed"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type DatabaseParsed struct {
	Tables      []json.RawMessage `json:"tables"`
	Indexes     []json.RawMessage `json:"indexes"`
	Constraints []json.RawMessage `json:"constraints"`
	ERDiagram   []json.RawMessage `json:"erDiagram"`
}

func (s *Store) GetDatabaseDesign(serviceID string) (*DatabaseDesignView, error) {
	var d models.DatabaseDesign
	if err := s.db.First(&d, "service_id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &DatabaseDesignView{
		ID:        d.ID,
		ServiceID: d.ServiceID,
		DBMS:      d.DBMS,
		Content:   d.Content,
		Parsed: DatabaseParsed{
			Tables:      parseList(d.Tables),
			Indexes:     parseList(d.Indexes),
			Constraints: parseList(d.Constraints),
			ERDiagram:   parseList(d.ERDiagram),
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (s *Store) UpsertDatabaseDesign(serviceID string, in DatabaseDesignInput) (*models.DatabaseDesign, bool, error) {
	now := time.Now()
	var d models.DatabaseDesign
	err := s.db.First(&d, "service_id = ?", serviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d = models.DatabaseDesign{
			ID:        uuid.NewString(),
			ServiceID: serviceID,
			DBMS:      "PostgreSQL",
			Content:   in.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyDatabaseDesignInput(&d, in)
		if err := s.db.Create(&d).Error; err != nil {
			return nil, false, err
		}
		return &d, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	d.Content = in.Content
	applyDatabaseDesignInput(&d, in)
	d.UpdatedAt = now
	if err := s.db.Save(&d).Error; err != nil {
		return nil, false, err
	}
	return &d, false, nil
}

func applyDatabaseDesignInput(d *models.DatabaseDesign, in DatabaseDesignInput) {
	if in.DBMS != "" {
		d.DBMS = in.DBMS
	}
	if v, ok := encodeList(in.Tables); ok {
		d.Tables = v
	}
	if v, ok := encodeList(in.Indexes); ok {
		d.Indexes = v
	}
	if v, ok := encodeList(in.Constraints); ok {
		d.Constraints = v
	}
	if v, ok := encodeList(in.ERDiagram); ok {
		d.ERDiagram = v
	}
}

type DomainLanguageInput struct {
	Content      string            `json:"content"`
	Version      string            `json:"version"`
	Entities     []json.RawMessage `json:"entities"`
	ValueObjects []json.RawMessage `json:"valueObjects"`
}

type DomainLanguageView struct {
	ID        string             `json:"id"`
	ServiceID string             `json:"serviceId"`
	Version   string             `json:"version"`
	Content   string             `json:"content"`
	Parsed    DomainLangParsed   `json:"parsed"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type DomainLangParsed struct {
	Entities     []json.RawMessage `json:"entities"`
	ValueObjects []json.RawMessage `json:"valueObjects"`
}

func (s *Store) GetDomainLanguage(serviceID string) (*DomainLanguageView, error) {
	var d models.DomainLanguage
	if err := s.db.First(&d, "service_id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &DomainLanguageView{
		ID:        d.ID,
		ServiceID: d.ServiceID,
		Version:   d.Version,
		Content:   d.Content,
		Parsed: DomainLangParsed{
			Entities:     parseList(d.Entities),
			ValueObjects: parseList(d.ValueObjects),
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (s *Store) UpsertDomainLanguage(serviceID string, in DomainLanguageInput) (*models.DomainLanguage, bool, error) {
	now := time.Now()
	var d models.DomainLanguage
	err := s.db.First(&d, "service_id = ?", serviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d = models.DomainLanguage{
			ID:        uuid.NewString(),
			ServiceID: serviceID,
			Version:   "1.0.0",
			Content:   in.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyDomainLanguageInput(&d, in)
		if err := s.db.Create(&d).Error; err != nil {
			return nil, false, err
		}
		return &d, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	d.Content = in.Content
	applyDomainLanguageInput(&d, in)
	d.UpdatedAt = now
	if err := s.db.Save(&d).Error; err != nil {
		return nil, false, err
	}
	return &d, false, nil
}

func applyDomainLanguageInput(d *models.DomainLanguage, in DomainLanguageInput) {
	if in.Version != "" {
		d.Version = in.Version
	}
	if v, ok := encodeList(in.Entities); ok {
		d.Entities = v
	}
	if v, ok := encodeList(in.ValueObjects); ok {
		d.ValueObjects = v
	}
}

// UpdateIntegrationSpecification writes the inline integration text on
// the service row itself; there is no separate document table for it.
func (s *Store) UpdateIntegrationSpecification(serviceID, content string) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	svc.IntegrationSpecification = content
	svc.UpdatedAt = time.Now()
	if err := s.db.Save(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}
