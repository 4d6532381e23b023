package repository

import (
	"context"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
)

// CompanyRepository reads companies. Company writes are owned by a
// back-office process, not this API.
type CompanyRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
}

// AreaRepository defines data access for company areas.
type AreaRepository interface {
	Create(ctx context.Context, a *model.Area) (*model.Area, error)
	FindByID(ctx context.Context, id int64) (*model.Area, error)
	List(ctx context.Context) ([]model.Area, error)
	Update(ctx context.Context, a *model.Area) error
	Delete(ctx context.Context, id int64) error
}

// DocumentStatusRepository reads the document status catalog.
type DocumentStatusRepository interface {
	FindByID(ctx context.Context, id int64) (*model.DocumentStatus, error)
	List(ctx context.Context) ([]model.DocumentStatus, error)
}
