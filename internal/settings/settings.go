package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
)

// UpsertInput carries the invoice header fields.
type UpsertInput struct {
	BusinessName     string
	BusinessSubtitle *string
	Phone            *string
	Email            *string
}

// Repository defines persistence operations for invoice settings.
type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.InvoiceSetting, error)
	Create(ctx context.Context, setting *models.InvoiceSetting) (*models.InvoiceSetting, error)
	Update(ctx context.Context, userID uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoice settings repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.InvoiceSetting, error) {
	var setting models.InvoiceSetting
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Create(ctx context.Context, setting *models.InvoiceSetting) (*models.InvoiceSetting, error) {
	if err := r.db.WithContext(ctx).Create(setting).Error; err != nil {
		return nil, err
	}
	return setting, nil
}

func (r *repository) Update(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.InvoiceSetting{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

// Service exposes read and upsert for the per-admin invoice header.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.InvoiceSetting, error)
	Upsert(ctx context.Context, userID uuid.UUID, input UpsertInput) (*models.InvoiceSetting, error)
}

type service struct {
	repo Repository
}

// NewService builds a settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.InvoiceSetting, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	setting, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice settings not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice settings")
	}
	return setting, nil
}

// Upsert creates the row on first save and updates it afterwards, one
// row per admin.
func (s *service) Upsert(ctx context.Context, userID uuid.UUID, input UpsertInput) (*models.InvoiceSetting, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	name := strings.TrimSpace(input.BusinessName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name required")
	}

	existing, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice settings")
		}
		setting := &models.InvoiceSetting{
			ID:           uuid.New(),
			UserID:       userID,
			BusinessName: name,
		}
		if input.BusinessSubtitle != nil {
			setting.BusinessSubtitle = *input.BusinessSubtitle
		}
		if input.Phone != nil {
			setting.Phone = *input.Phone
		}
		if input.Email != nil {
			setting.Email = *input.Email
		}
		if _, err := s.repo.Create(ctx, setting); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice settings")
		}
		return setting, nil
	}

	updates := map[string]any{"business_name": name}
	if input.BusinessSubtitle != nil {
		updates["business_subtitle"] = *input.BusinessSubtitle
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invoice settings")
	}
	return s.repo.FindByUserID(ctx, existing.UserID)
}
