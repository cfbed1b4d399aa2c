package catalog

import (
	"context"
	"strings"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the record store: durable persistence of tickets keyed by
// id. It is only ever called by the catalog service.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ticket repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository whose writes run on the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) RecordStore {
	return &Repository{db: tx}
}

// GetAll returns every stored ticket in unspecified order; callers sort.
func (r *Repository) GetAll(ctx context.Context) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := r.db.WithContext(ctx).Find(&tickets).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, "load tickets")
	}
	return tickets, nil
}

// Put inserts or fully replaces the ticket at its id. The write runs inside
// a transaction so readers never observe a partial record.
func (r *Repository) Put(ctx context.Context, ticket models.Ticket) error {
	if strings.TrimSpace(ticket.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeStorageWrite, "ticket id is required")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&ticket).Error
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorageWrite, err, "persist ticket")
	}
	return nil
}

// Delete removes the ticket; a missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Ticket{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorageWrite, err, "delete ticket")
	}
	return nil
}

// Count returns the number of persisted tickets.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Ticket{}).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, "count tickets")
	}
	return count, nil
}
