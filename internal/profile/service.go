package profile

import (
	"context"
	"strings"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the local collector profile gate. Passwords are compared
// in plaintext; this is a convenience lock on a single-user archive, not a
// security boundary.
type Service interface {
	Register(ctx context.Context, name, password string) (models.CollectorProfile, error)
	Login(ctx context.Context, password string) (models.CollectorProfile, error)
	Current(ctx context.Context) (models.CollectorProfile, error)
}

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

// NewService builds a profile service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// Register creates or replaces the single collector profile.
func (s *service) Register(ctx context.Context, name, password string) (models.CollectorProfile, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return models.CollectorProfile{}, pkgerrors.New(pkgerrors.CodeValidation, "collector name is required")
	}
	if password == "" {
		return models.CollectorProfile{}, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	stored := models.CollectorProfile{Name: trimmedName, Password: password}
	if err := s.repo.Save(ctx, stored); err != nil {
		return models.CollectorProfile{}, err
	}
	return stored, nil
}

// Login checks the supplied password against the stored profile.
func (s *service) Login(ctx context.Context, password string) (models.CollectorProfile, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.CollectorProfile{}, pkgerrors.New(pkgerrors.CodeNotFound, "no collector profile registered")
		}
		return models.CollectorProfile{}, err
	}
	if stored.Password != password {
		return models.CollectorProfile{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password")
	}
	return stored, nil
}

// Current returns the stored profile without checking credentials; the UI
// uses it to decide between the register and login screens.
func (s *service) Current(ctx context.Context) (models.CollectorProfile, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.CollectorProfile{}, pkgerrors.New(pkgerrors.CodeNotFound, "no collector profile registered")
		}
		return models.CollectorProfile{}, err
	}
	return stored, nil
}
