package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"consultdesk/internal/config"
	"consultdesk/internal/models"
)

// Domain names one of the per-domain relational stores.
type Domain string

const (
	Auth         Domain = "auth"
	Project      Domain = "project"
	Resource     Domain = "resource"
	Timesheet    Domain = "timesheet"
	Notification Domain = "notification"
	Knowledge    Domain = "knowledge"
	Parasol      Domain = "parasol"
	Finance      Domain = "finance"
)

// Domains lists every store the registry manages, in migration order.
var Domains = []Domain{Auth, Project, Resource, Timesheet, Notification, Knowledge, Parasol, Finance}

// migrations maps each domain to the models that live in its store.
var migrations = map[Domain][]any{
	Auth:         {&models.Role{}, &models.Organization{}, &models.User{}, &models.Session{}},
	Project:      {&models.Project{}, &models.ProjectMember{}},
	Resource:     {&models.ResourceAssignment{}},
	Timesheet:    {&models.TimesheetEntry{}},
	Notification: {&models.Notification{}},
	Knowledge:    {&models.KnowledgeArticle{}},
	Parasol: {
		&models.Service{}, &models.BusinessCapability{}, &models.BusinessOperation{},
		&models.UseCase{}, &models.PageDefinition{}, &models.RobustnessDiagram{},
		&models.APISpecification{}, &models.DatabaseDesign{}, &models.DomainLanguage{},
	},
	Finance: {&models.RevenueRecord{}},
}

// Registry holds one gorm client per business domain. It is built once
// at process start and injected into handlers; nothing in this package
// keeps ambient global state.
type Registry struct {
	clients map[Domain]*gorm.DB
}

// Open connects every domain store and runs its migrations.
func Open(cfg *config.Config) (*Registry, error) {
	r := &Registry{clients: make(map[Domain]*gorm.DB, len(Domains))}
	for _, d := range Domains {
		db, err := gorm.Open(postgres.Open(cfg.DomainURL(string(d))), &gorm.Config{})
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("connect %s store: %w", d, err)
		}
		if err := db.AutoMigrate(migrations[d]...); err != nil {
			r.Close()
			return nil, fmt.Errorf("migrate %s store: %w", d, err)
		}
		r.clients[d] = db
	}
	return r, nil
}

// NewFromClients builds a registry over already-open clients and runs
// each domain's migrations. Tests use this with in-memory databases.
func NewFromClients(clients map[Domain]*gorm.DB) (*Registry, error) {
	for d, db := range clients {
		if err := db.AutoMigrate(migrations[d]...); err != nil {
			return nil, fmt.Errorf("migrate %s store: %w", d, err)
		}
	}
	return &Registry{clients: clients}, nil
}

// Get returns the client for a domain. Asking for a domain the registry
// was not opened with is a programming error.
func (r *Registry) Get(d Domain) *gorm.DB {
	db, ok := r.clients[d]
	if !ok {
		panic(fmt.Sprintf("database: no client for domain %q", d))
	}
	return db
}

// Close tears down every underlying connection. Safe to call after a
// partial Open.
func (r *Registry) Close() error {
	var firstErr error
	for d, db := range r.clients {
		sqlDB, err := db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s store: %w", d, err)
			}
			continue
		}
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s store: %w", d, err)
		}
	}
	return firstErr
}
