package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
	"github.com/Desarrollo-Prime/server-bigc/internal/storage"
)

var (
	ErrReaderNil        = errors.New("reader is nil")
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentExists   = errors.New("a document with this name already exists in the company/area")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrAreaNotFound     = errors.New("area not found")
	ErrStatusNotFound   = errors.New("document status not found")
)

// UploadDocumentInput carries the metadata accompanying a file upload.
// AreaID zero means the document is company-wide.
type UploadDocumentInput struct {
	CompanyID   int64
	AreaID      int64
	StatusID    int64
	Name        string
	Description string
}

// UpdateDocumentInput carries optional metadata fields for an update.
type UpdateDocumentInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AreaID      *int64  `json:"area_id"`
	StatusID    *int64  `json:"status_id"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload validates the related company/area/status, streams the
	// content to object storage, saves metadata to DB, and rolls back
	// the stored object if the DB save fails.
	Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, in UploadDocumentInput, uploaderID int64, actor string) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// Download returns the stored content and metadata for a document.
	Download(ctx context.Context, id int64) (io.ReadCloser, *model.Document, error)

	// PresignDownload returns a time-limited URL for fetching the
	// content directly from object storage.
	PresignDownload(ctx context.Context, id int64, expiry time.Duration) (string, error)

	// Update applies metadata changes; the stored file is immutable.
	Update(ctx context.Context, id int64, in UpdateDocumentInput, actor string) (*model.Document, error)

	// Delete removes a document from both storage and repository.
	Delete(ctx context.Context, id int64) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store     storage.Storage
	repo      repository.DocumentRepository
	companies repository.CompanyRepository
	areas     repository.AreaRepository
	statuses  repository.DocumentStatusRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, companies repository.CompanyRepository, areas repository.AreaRepository, statuses repository.DocumentStatusRepository) DocumentService {
	return &documentService{
		store:     store,
		repo:      repo,
		companies: companies,
		areas:     areas,
		statuses:  statuses,
	}
}

// validateScope checks that the referenced company, area and status rows
// exist before anything is written.
func (s *documentService) validateScope(ctx context.Context, companyID, areaID, statusID int64) error {
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCompanyNotFound
		}
		return err
	}
	if areaID != 0 {
		if _, err := s.areas.FindByID(ctx, areaID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAreaNotFound
			}
			return err
		}
	}
	if _, err := s.statuses.FindByID(ctx, statusID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStatusNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, in UploadDocumentInput, uploaderID int64, actor string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if err := s.validateScope(ctx, in.CompanyID, in.AreaID, in.StatusID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByNameInScope(ctx, in.Name, in.CompanyID, in.AreaID); err == nil {
		return nil, ErrDocumentExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Generate storage key using UUID + extension
	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	// Upload to object storage
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	// Save metadata to database
	now := time.Now().UTC()
	doc := &model.Document{
		CompanyID:     in.CompanyID,
		AreaID:        in.AreaID,
		UserID:        uploaderID,
		Name:          in.Name,
		Description:   in.Description,
		FileName:      originalFilename,
		FileExtension: ext,
		StoragePath:   objInfo.Key,
		Size:          objInfo.Size,
		ContentType:   objInfo.ContentType,
		StatusID:      in.StatusID,
		CreatedAt:     now,
		CreatedBy:     actor,
		ModifiedAt:    now,
		ModifiedBy:    actor,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Download streams a document's content from object storage.
func (s *documentService) Download(ctx context.Context, id int64) (io.ReadCloser, *model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("get from storage: %w", err)
	}
	return rc, doc, nil
}

// PresignDownload returns a signed URL so large files can be fetched
// from object storage without proxying through the API.
func (s *documentService) PresignDownload(ctx context.Context, id int64, expiry time.Duration) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, doc.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return url, nil
}

// Update applies metadata changes after re-validating the scope.
func (s *documentService) Update(ctx context.Context, id int64, in UpdateDocumentInput, actor string) (*model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.AreaID != nil {
		doc.AreaID = *in.AreaID
	}
	if in.StatusID != nil {
		doc.StatusID = *in.StatusID
	}
	if in.Name != nil && *in.Name != doc.Name {
		if other, err := s.repo.FindByNameInScope(ctx, *in.Name, doc.CompanyID, doc.AreaID); err == nil && other.ID != id {
			return nil, ErrDocumentExists
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		doc.Name = *in.Name
	}
	if in.Description != nil {
		doc.Description = *in.Description
	}

	if err := s.validateScope(ctx, doc.CompanyID, doc.AreaID, doc.StatusID); err != nil {
		return nil, err
	}

	doc.ModifiedAt = time.Now().UTC()
	doc.ModifiedBy = actor
	if err := s.repo.Update(ctx, doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	// Find the document to get its storage path
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	// Delete DB row (repository ignores missing row errors as per contract)
	return s.repo.Delete(ctx, id)
}
