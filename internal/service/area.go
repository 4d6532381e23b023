package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
)

var ErrAreaNameRequired = errors.New("area name is required")

// AreaInput carries the fields accepted when creating or updating an area.
type AreaInput struct {
	CompanyID   int64  `json:"company_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AreaService defines the use cases for managing company areas.
type AreaService interface {
	Create(ctx context.Context, in AreaInput, createdBy string) (*model.Area, error)
	List(ctx context.Context) ([]model.Area, error)
	Get(ctx context.Context, id int64) (*model.Area, error)
	Update(ctx context.Context, id int64, in AreaInput, modifiedBy string) (*model.Area, error)
	Delete(ctx context.Context, id int64) error
}

type areaService struct {
	areas     repository.AreaRepository
	companies repository.CompanyRepository
}

// NewAreaService constructs a new AreaService.
func NewAreaService(areas repository.AreaRepository, companies repository.CompanyRepository) AreaService {
	return &areaService{areas: areas, companies: companies}
}

func (s *areaService) Create(ctx context.Context, in AreaInput, createdBy string) (*model.Area, error) {
	if in.Name == "" {
		return nil, ErrAreaNameRequired
	}
	if _, err := s.companies.FindByID(ctx, in.CompanyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	return s.areas.Create(ctx, &model.Area{
		CompanyID:   in.CompanyID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		CreatedBy:   createdBy,
		ModifiedAt:  now,
		ModifiedBy:  createdBy,
	})
}

func (s *areaService) List(ctx context.Context) ([]model.Area, error) {
	return s.areas.List(ctx)
}

func (s *areaService) Get(ctx context.Context, id int64) (*model.Area, error) {
	area, err := s.areas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return area, nil
}

func (s *areaService) Update(ctx context.Context, id int64, in AreaInput, modifiedBy string) (*model.Area, error) {
	area, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CompanyID != 0 && in.CompanyID != area.CompanyID {
		if _, err := s.companies.FindByID(ctx, in.CompanyID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrCompanyNotFound
			}
			return nil, err
		}
		area.CompanyID = in.CompanyID
	}
	if in.Name != "" {
		area.Name = in.Name
	}
	if in.Description != "" {
		area.Description = in.Description
	}
	area.ModifiedAt = time.Now().UTC()
	area.ModifiedBy = modifiedBy

	if err := s.areas.Update(ctx, area); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return area, nil
}

func (s *areaService) Delete(ctx context.Context, id int64) error {
	if err := s.areas.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAreaNotFound
		}
		return err
	}
	return nil
}
