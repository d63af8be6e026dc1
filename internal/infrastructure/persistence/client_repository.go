package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence/models"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var model models.ClientModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPhone finds a client by its normalized phone number
func (r *GormClientRepository) FindByPhone(ctx context.Context, phone string) (*partner.Client, error) {
	var model models.ClientModel
	if err := dbFromContext(ctx, r.db).First(&model, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a client by email
func (r *GormClientRepository) FindByEmail(ctx context.Context, email string) (*partner.Client, error) {
	var model models.ClientModel
	if err := dbFromContext(ctx, r.db).First(&model, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDocumentIdentity finds a client by national ID document
func (r *GormClientRepository) FindByDocumentIdentity(ctx context.Context, doc string) (*partner.Client, error) {
	var model models.ClientModel
	if err := dbFromContext(ctx, r.db).First(&model, "document_identity = ?", doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds clients with optional text search and pagination
func (r *GormClientRepository) FindAll(ctx context.Context, filter partner.ClientFilter) ([]partner.Client, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&models.ClientModel{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(surname) LIKE ? OR phone LIKE ? OR LOWER(COALESCE(email, '')) LIKE ? OR LOWER(COALESCE(document_identity, '')) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clientModels []models.ClientModel
	if err := query.
		Order("created_at DESC").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Find(&clientModels).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]partner.Client, len(clientModels))
	for i, m := range clientModels {
		clients[i] = *m.ToDomain()
	}
	return clients, total, nil
}

// CountCreatedBetween counts the clients registered in [from, to)
func (r *GormClientRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.ClientModel{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// Save creates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return dbFromContext(ctx, r.db).Create(models.ClientModelFromDomain(client)).Error
}

// Update updates a client
func (r *GormClientRepository) Update(ctx context.Context, client *partner.Client) error {
	return dbFromContext(ctx, r.db).Save(models.ClientModelFromDomain(client)).Error
}

// Delete deletes a client
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&models.ClientModel{}, "id = ?", id).Error
}

// Ensure GormClientRepository implements the interface
var _ partner.ClientRepository = (*GormClientRepository)(nil)
