package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/route-planner/service-planner/internal/platform/domain"
	"github.com/route-planner/service-planner/internal/postal"
)

// PostalCodeModel is the GORM model for the postal_codes table.
type PostalCodeModel struct {
	Zip       string    `gorm:"primaryKey;size:10"`
	Lat       float64   `gorm:"not null"`
	Lon       float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PostalCodeModel) TableName() string {
	return "postal_codes"
}

// GormPostalRepository is a postal.Directory backed by PostgreSQL.
type GormPostalRepository struct {
	db *gorm.DB
}

// NewGormPostalRepository creates a new GormPostalRepository.
func NewGormPostalRepository(db *gorm.DB) *GormPostalRepository {
	return &GormPostalRepository{db: db}
}

// Lookup implements postal.Directory.
func (r *GormPostalRepository) Lookup(ctx context.Context, zip string) (*postal.Code, error) {
	var model PostalCodeModel
	if err := r.db.WithContext(ctx).Where("zip = ?", postal.Normalize(zip)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Postal code", zip)
		}
		return nil, err
	}
	return &postal.Code{Zip: model.Zip, Lat: model.Lat, Lon: model.Lon}, nil
}

// Seed upserts codes in batches, overwriting coordinates of existing zips.
func (r *GormPostalRepository) Seed(ctx context.Context, codes []postal.Code) error {
	if len(codes) == 0 {
		return nil
	}

	models := make([]PostalCodeModel, len(codes))
	for i, c := range codes {
		models[i] = PostalCodeModel{Zip: postal.Normalize(c.Zip), Lat: c.Lat, Lon: c.Lon}
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "zip"}},
			DoUpdates: clause.AssignmentColumns([]string{"lat", "lon", "updated_at"}),
		}).
		CreateInBatches(models, 500).Error
}

// Count returns the number of stored postal codes.
func (r *GormPostalRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&PostalCodeModel{}).Count(&n).Error
	return n, err
}
