package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
	repoMocks "github.com/Desarrollo-Prime/server-bigc/internal/repository/mocks"
	"github.com/Desarrollo-Prime/server-bigc/internal/storage"
	storeMocks "github.com/Desarrollo-Prime/server-bigc/internal/storage/mocks"
)

type documentMocks struct {
	store     *storeMocks.MockStorage
	repo      *repoMocks.MockDocumentRepository
	companies *repoMocks.MockCompanyRepository
	areas     *repoMocks.MockAreaRepository
	statuses  *repoMocks.MockDocumentStatusRepository
}

func newDocumentService(t *testing.T) (DocumentService, *documentMocks) {
	t.Helper()
	m := &documentMocks{
		store:     new(storeMocks.MockStorage),
		repo:      new(repoMocks.MockDocumentRepository),
		companies: new(repoMocks.MockCompanyRepository),
		areas:     new(repoMocks.MockAreaRepository),
		statuses:  new(repoMocks.MockDocumentStatusRepository),
	}
	svc := NewDocumentService(m.store, m.repo, m.companies, m.areas, m.statuses)
	return svc, m
}

func (m *documentMocks) expectScope(ctx context.Context, companyID, areaID, statusID int64) {
	m.companies.On("FindByID", ctx, companyID).Return(&model.Company{ID: companyID}, nil)
	if areaID != 0 {
		m.areas.On("FindByID", ctx, areaID).Return(&model.Area{ID: areaID, CompanyID: companyID}, nil)
	}
	m.statuses.On("FindByID", ctx, statusID).Return(&model.DocumentStatus{ID: statusID}, nil)
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	input := UploadDocumentInput{CompanyID: 1, AreaID: 2, StatusID: 1, Name: "Policy"}

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.expectScope(ctx, 1, 2, 1)
		m.repo.On("FindByNameInScope", ctx, "Policy", int64(1), int64(2)).Return(nil, sql.ErrNoRows)

		r := strings.NewReader("hello world")
		m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".txt")
		}), r, storage.PutObjectOptions{
			Size:        11,
			ContentType: "text/plain",
			Metadata:    map[string]string{"original-filename": "test.txt"},
		}).Return(storage.ObjectInfo{
			Key:         "documents/uuid.txt",
			Size:        11,
			ContentType: "text/plain",
		}, nil)

		m.repo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Name == "Policy" &&
				doc.UserID == 9 &&
				doc.CreatedBy == "ana" &&
				doc.FileName == "test.txt" &&
				doc.FileExtension == ".txt" &&
				doc.StoragePath == "documents/uuid.txt"
		})).Return(&model.Document{ID: 10}, nil)

		doc, err := svc.Upload(ctx, r, "test.txt", "text/plain", 11, input, 9, "ana")
		assert.NoError(t, err)
		assert.Equal(t, int64(10), doc.ID)
		m.store.AssertExpectations(t)
		m.repo.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc, _ := newDocumentService(t)
		_, err := svc.Upload(ctx, nil, "test.txt", "", 0, input, 9, "ana")
		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("unknown company", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.companies.On("FindByID", ctx, int64(1)).Return(nil, sql.ErrNoRows)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "test.txt", "", 1, input, 9, "ana")
		assert.ErrorIs(t, err, ErrCompanyNotFound)
		m.store.AssertNotCalled(t, "Put")
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.companies.On("FindByID", ctx, int64(1)).Return(&model.Company{ID: 1}, nil)
		m.areas.On("FindByID", ctx, int64(2)).Return(&model.Area{ID: 2}, nil)
		m.statuses.On("FindByID", ctx, int64(1)).Return(nil, sql.ErrNoRows)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "test.txt", "", 1, input, 9, "ana")
		assert.ErrorIs(t, err, ErrStatusNotFound)
	})

	t.Run("duplicate name in scope", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.expectScope(ctx, 1, 2, 1)
		m.repo.On("FindByNameInScope", ctx, "Policy", int64(1), int64(2)).
			Return(&model.Document{ID: 3, Name: "Policy"}, nil)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "test.txt", "", 1, input, 9, "ana")
		assert.ErrorIs(t, err, ErrDocumentExists)
		m.store.AssertNotCalled(t, "Put")
	})

	t.Run("company-wide upload skips area validation", func(t *testing.T) {
		svc, m := newDocumentService(t)
		wide := UploadDocumentInput{CompanyID: 1, AreaID: 0, StatusID: 1, Name: "Global"}
		m.expectScope(ctx, 1, 0, 1)
		m.repo.On("FindByNameInScope", ctx, "Global", int64(1), int64(0)).Return(nil, sql.ErrNoRows)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "documents/uuid.txt"}, nil)
		m.repo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.AreaID == 0
		})).Return(&model.Document{ID: 11}, nil)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "test.txt", "", 1, wide, 9, "ana")
		assert.NoError(t, err)
		m.areas.AssertNotCalled(t, "FindByID")
	})

	t.Run("storage error", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.expectScope(ctx, 1, 2, 1)
		m.repo.On("FindByNameInScope", ctx, "Policy", int64(1), int64(2)).Return(nil, sql.ErrNoRows)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := svc.Upload(ctx, strings.NewReader("x"), "test.txt", "", 1, input, 9, "ana")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "upload to storage: storage fail")
	})

	t.Run("repository error with successful rollback", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.expectScope(ctx, 1, 2, 1)
		m.repo.On("FindByNameInScope", ctx, "Policy", int64(1), int64(2)).Return(nil, sql.ErrNoRows)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key}
			}, nil)
		m.repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		m.store.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "test.txt", "", 1, input, 9, "ana")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db save failed: db fail")
		m.store.AssertExpectations(t)
	})

	t.Run("repository error with failed rollback", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.expectScope(ctx, 1, 2, 1)
		m.repo.On("FindByNameInScope", ctx, "Policy", int64(1), int64(2)).Return(nil, sql.ErrNoRows)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key}
			}, nil)
		m.repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		m.store.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))

		_, err := svc.Upload(ctx, strings.NewReader("x"), "test.txt", "", 1, input, 9, "ana")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rollback delete failed: delete fail")
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Document]{
				Items: []model.Document{{ID: 1}, {ID: 2}},
				Total: 2,
			}, nil)

		res, err := svc.List(ctx, 10, 0)
		assert.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("pagination boundary - zero limit uses default", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)

		_, err := svc.List(ctx, 0, -1)
		assert.NoError(t, err)
		m.repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := svc.List(ctx, 10, 0)
		assert.Error(t, err)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(10)).Return(&model.Document{ID: 10}, nil)

		doc, err := svc.Get(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(10), doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)

		doc, err := svc.Get(ctx, 99)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)
		doc := &model.Document{ID: 10, StoragePath: "documents/uuid.pdf", FileName: "file.pdf"}
		m.repo.On("FindByID", ctx, int64(10)).Return(doc, nil)
		m.store.On("Get", ctx, "documents/uuid.pdf").
			Return(io.NopCloser(strings.NewReader("content")), storage.ObjectInfo{}, nil)

		rc, got, err := svc.Download(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, doc.FileName, got.FileName)
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "content", string(data))
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(10)).Return(&model.Document{ID: 10, StoragePath: "p"}, nil)
		m.store.On("Get", ctx, "p").Return(nil, storage.ObjectInfo{}, errors.New("gone"))

		_, _, err := svc.Download(ctx, 10)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "get from storage")
	})
}

func TestDocumentService_PresignDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(10)).
			Return(&model.Document{ID: 10, StoragePath: "documents/uuid.pdf"}, nil)
		m.store.On("PresignGet", ctx, "documents/uuid.pdf", 15*time.Minute).
			Return("https://minio.local/signed", nil)

		url, err := svc.PresignDownload(ctx, 10, 15*time.Minute)
		assert.NoError(t, err)
		assert.Equal(t, "https://minio.local/signed", url)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)

		_, err := svc.PresignDownload(ctx, 99, 15*time.Minute)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
		m.store.AssertNotCalled(t, "PresignGet")
	})

	t.Run("signing failure", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(10)).
			Return(&model.Document{ID: 10, StoragePath: "p"}, nil)
		m.store.On("PresignGet", ctx, "p", 15*time.Minute).
			Return("", errors.New("no creds"))

		_, err := svc.PresignDownload(ctx, 10, 15*time.Minute)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "presign get")
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()
	strPtr := func(s string) *string { return &s }

	t.Run("rename checks scope uniqueness", func(t *testing.T) {
		svc, m := newDocumentService(t)
		doc := &model.Document{ID: 10, CompanyID: 1, AreaID: 2, Name: "Old", StatusID: 1}
		m.repo.On("FindByID", ctx, int64(10)).Return(doc, nil)
		m.repo.On("FindByNameInScope", ctx, "New", int64(1), int64(2)).Return(nil, sql.ErrNoRows)
		m.expectScope(ctx, 1, 2, 1)
		m.repo.On("Update", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.Name == "New" && d.ModifiedBy == "ana"
		})).Return(nil)

		updated, err := svc.Update(ctx, 10, UpdateDocumentInput{Name: strPtr("New")}, "ana")
		assert.NoError(t, err)
		assert.Equal(t, "New", updated.Name)
	})

	t.Run("rename collides with existing document", func(t *testing.T) {
		svc, m := newDocumentService(t)
		doc := &model.Document{ID: 10, CompanyID: 1, AreaID: 2, Name: "Old", StatusID: 1}
		m.repo.On("FindByID", ctx, int64(10)).Return(doc, nil)
		m.repo.On("FindByNameInScope", ctx, "Taken", int64(1), int64(2)).
			Return(&model.Document{ID: 11, Name: "Taken"}, nil)

		_, err := svc.Update(ctx, 10, UpdateDocumentInput{Name: strPtr("Taken")}, "ana")
		assert.ErrorIs(t, err, ErrDocumentExists)
		m.repo.AssertNotCalled(t, "Update")
	})

	t.Run("unknown document", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, 99, UpdateDocumentInput{}, "ana")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(10)).
			Return(&model.Document{ID: 10, StoragePath: "documents/uuid.pdf"}, nil)
		m.store.On("Delete", ctx, "documents/uuid.pdf").Return(nil)
		m.repo.On("Delete", ctx, int64(10)).Return(nil)

		assert.NoError(t, svc.Delete(ctx, 10))
		m.store.AssertExpectations(t)
		m.repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, 99), ErrDocumentNotFound)
	})

	t.Run("storage delete error keeps the row", func(t *testing.T) {
		svc, m := newDocumentService(t)
		m.repo.On("FindByID", ctx, int64(10)).
			Return(&model.Document{ID: 10, StoragePath: "p"}, nil)
		m.store.On("Delete", ctx, "p").Return(errors.New("storage fail"))

		err := svc.Delete(ctx, 10)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "delete storage")
		m.repo.AssertNotCalled(t, "Delete")
	})
}
