package parasol

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"consultdesk/internal/models"
)

// UpsertPageDefinition writes the single page definition for a use
// case. Addressing by useCaseId is what keeps the relation 1:1: there
// is no way to create a second page for the same use case.
func (s *Store) UpsertPageDefinition(useCaseID, displayName, content string) (*models.PageDefinition, bool, error) {
	if _, err := s.UseCaseByID(useCaseID); err != nil {
		return nil, false, err
	}
	now := time.Now()
	var page models.PageDefinition
	err := s.db.First(&page, "use_case_id = ?", useCaseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		page = models.PageDefinition{
			ID:          uuid.NewString(),
			UseCaseID:   useCaseID,
			DisplayName: displayName,
			Content:     content,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.db.Create(&page).Error; err != nil {
			return nil, false, err
		}
		return &page, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	page.DisplayName = displayName
	page.Content = content
	page.UpdatedAt = now
	if err := s.db.Save(&page).Error; err != nil {
		return nil, false, err
	}
	return &page, false, nil
}

func (s *Store) PageDefinitionByUseCase(useCaseID string) (*models.PageDefinition, error) {
	var page models.PageDefinition
	if err := s.db.First(&page, "use_case_id = ?", useCaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

// DuplicatePageNames lists display names shared by more than one page
// definition. Duplicates are tolerated; this is a data-quality report,
// not an invariant.
func (s *Store) DuplicatePageNames() ([]string, error) {
	var names []string
	err := s.db.Model(&models.PageDefinition{}).
		Select("display_name").
		Where("display_name <> ''").
		Group("display_name").
		Having("count(*) > 1").
		Order("display_name asc").
		Pluck("display_name", &names).Error
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// UpsertRobustnessDiagram creates the use case's diagram or replaces
// its content. The returned bool reports creation.
func (s *Store) UpsertRobustnessDiagram(useCaseID, content string) (*models.RobustnessDiagram, bool, error) {
	if _, err := s.UseCaseByID(useCaseID); err != nil {
		return nil, false, err
	}
	now := time.Now()
	var d models.RobustnessDiagram
	err := s.db.First(&d, "use_case_id = ?", useCaseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d = models.RobustnessDiagram{
			ID:        uuid.NewString(),
			UseCaseID: useCaseID,
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.db.Create(&d).Error; err != nil {
			return nil, false, err
		}
		return &d, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	d.Content = content
	d.UpdatedAt = now
	if err := s.db.Save(&d).Error; err != nil {
		return nil, false, err
	}
	return &d, false, nil
}

func (s *Store) RobustnessDiagramByUseCase(useCaseID string) (*models.RobustnessDiagram, error) {
	var d models.RobustnessDiagram
	if err := s.db.First(&d, "use_case_id = ?", useCaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// RobustnessListItem joins the parent use case for its display name
// only; the listing never writes back.
type RobustnessListItem struct {
	ID          string    `json:"id"`
	UseCaseID   string    `json:"useCaseId"`
	UseCaseName string    `json:"useCaseName"`
	Content     string    `json:"content"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Store) ListRobustnessDiagrams() ([]RobustnessListItem, error) {
	var items []RobustnessListItem
	err := s.db.Model(&models.RobustnessDiagram{}).
		Select("robustness_diagrams.id, robustness_diagrams.use_case_id, use_cases.name as use_case_name, robustness_diagrams.content, robustness_diagrams.updated_at").
		Joins("join use_cases on use_cases.id = robustness_diagrams.use_case_id").
		Order("use_cases.name asc").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []RobustnessListItem{}
	}
	return items, nil
}
