// Package parasol implements the domain-design documentation model:
// services, capabilities, operations, use cases and their design
// documents. Specification documents keep an authoritative Markdown
// content field next to JSON-encoded derived columns that are parsed
// leniently on read and allowed to go stale on write.
package parasol

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"consultdesk/internal/models"
)

// ErrNotFound reports that a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ServiceByName resolves a service by its human-readable name, the
// natural key the document endpoints address services with.
func (s *Store) ServiceByName(name string) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

// ServiceByID resolves a service by surrogate id. The domain-language
// endpoint addresses services this way while its siblings use the name;
// the asymmetry is part of the published surface and is kept.
func (s *Store) ServiceByID(id string) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (s *Store) ListServices() ([]models.Service, error) {
	var out []models.Service
	err := s.db.Order("name asc").Find(&out).Error
	return out, err
}

func (s *Store) CreateService(name, displayName, description string) (*models.Service, error) {
	now := time.Now()
	svc := models.Service{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: displayName,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.Create(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *Store) ListCapabilities(serviceID string) ([]models.BusinessCapability, error) {
	var out []models.BusinessCapability
	err := s.db.Where("service_id = ?", serviceID).Order("name asc").Find(&out).Error
	return out, err
}

func (s *Store) CreateCapability(serviceID, name, category, description string) (*models.BusinessCapability, error) {
	now := time.Now()
	cap := models.BusinessCapability{
		ID:          uuid.NewString(),
		ServiceID:   serviceID,
		Name:        name,
		Category:    category,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.Create(&cap).Error; err != nil {
		return nil, err
	}
	return &cap, nil
}

func (s *Store) CapabilityByID(id string) (*models.BusinessCapability, error) {
	var cap models.BusinessCapability
	if err := s.db.First(&cap, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cap, nil
}

func (s *Store) ListOperations(capabilityID string) ([]models.BusinessOperation, error) {
	var out []models.BusinessOperation
	err := s.db.Where("capability_id = ?", capabilityID).Order("name asc").Find(&out).Error
	return out, err
}

// CreateOperation denormalizes the owning capability's service id onto
// the operation row.
func (s *Store) CreateOperation(capabilityID, name, pattern, design string) (*models.BusinessOperation, error) {
	cap, err := s.CapabilityByID(capabilityID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	op := models.BusinessOperation{
		ID:           uuid.NewString(),
		CapabilityID: cap.ID,
		ServiceID:    cap.ServiceID,
		Name:         name,
		Pattern:      pattern,
		Design:       design,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.Create(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func (s *Store) OperationByID(id string) (*models.BusinessOperation, error) {
	var op models.BusinessOperation
	if err := s.db.First(&op, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// ListUseCases orders by explicit display order, ties broken by
// creation order.
func (s *Store) ListUseCases(operationID string) ([]models.UseCase, error) {
	var out []models.UseCase
	err := s.db.Where("operation_id = ?", operationID).
		Order("display_order asc").Order("created_at asc").Find(&out).Error
	return out, err
}

func (s *Store) CreateUseCase(operationID, name, description string, displayOrder int) (*models.UseCase, error) {
	if _, err := s.OperationByID(operationID); err != nil {
		return nil, err
	}
	now := time.Now()
	uc := models.UseCase{
		ID:           uuid.NewString(),
		OperationID:  operationID,
		Name:         name,
		Description:  description,
		DisplayOrder: displayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.Create(&uc).Error; err != nil {
		return nil, err
	}
	return &uc, nil
}

func (s *Store) UseCaseByID(id string) (*models.UseCase, error) {
	var uc models.UseCase
	if err := s.db.First(&uc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &uc, nil
}
