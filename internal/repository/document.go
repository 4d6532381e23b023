package repository

import (
	"context"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns it with the
	// generated id.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// FindByNameInScope returns a document with the given name in the
	// same company/area scope, for duplicate detection. areaID zero
	// matches company-wide documents.
	FindByNameInScope(ctx context.Context, name string, companyID, areaID int64) (*model.Document, error)

	// List returns a paginated list of documents and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// Update persists mutable metadata fields and audit columns.
	Update(ctx context.Context, doc *model.Document) error

	// Delete removes a document by ID. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id int64) error
}
