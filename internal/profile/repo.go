package profile

import (
	"context"

	"github.com/worldoflottery/archive-backend/pkg/db/models"
	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// singleProfileID pins the one-and-only collector profile row. The profile
// lives outside the ticket table on purpose: it is a UI gate, not a record.
const singleProfileID = 1

// Repository encapsulates collector profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stored profile, or gorm.ErrRecordNotFound when none exists.
func (r *Repository) Get(ctx context.Context) (models.CollectorProfile, error) {
	var stored models.CollectorProfile
	err := r.db.WithContext(ctx).First(&stored, "id = ?", singleProfileID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.CollectorProfile{}, err
		}
		return models.CollectorProfile{}, pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, "load collector profile")
	}
	return stored, nil
}

// Save writes (or overwrites) the single profile row.
func (r *Repository) Save(ctx context.Context, p models.CollectorProfile) error {
	p.ID = singleProfileID
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&p).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorageWrite, err, "persist collector profile")
	}
	return nil
}
