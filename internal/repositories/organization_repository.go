package repositories

import (
	"context"

	"github.com/WillSeigler/Bookd/internal/models"
	"gorm.io/gorm"
)

type OrganizationRepository interface {
	GetOrganizationsByIDs(ctx context.Context, ids []string) (map[string]models.Organization, error)
}

type PostgresOrganizationRepository struct {
	db *gorm.DB
}

func NewPostgresOrganizationRepository(db *gorm.DB) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{db: db}
}

func (r *PostgresOrganizationRepository) GetOrganizationsByIDs(ctx context.Context, ids []string) (map[string]models.Organization, error) {
	out := make(map[string]models.Organization, len(ids))
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	var orgs []models.Organization
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&orgs).Error; err != nil {
		return nil, err
	}
	for _, o := range orgs {
		out[o.ID] = o
	}
	return out, nil
}
