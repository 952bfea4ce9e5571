package memory

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"github.com/google/uuid"
)

type campRepository struct {
	camps *collection[*entity.DonationCamp]
}

// NewCampRepository returns the donation camp repository of the store.
func NewCampRepository(store *Store) repository.CampRepository {
	return &campRepository{camps: store.camps}
}

func (repo *campRepository) CreateCamp(_ context.Context, camp *entity.DonationCamp) error {
	if camp.ID == "" {
		camp.ID = uuid.NewString()
	}

	return repo.camps.insert(camp.ID, camp)
}

func (repo *campRepository) FindCampsByStatus(_ context.Context, status entity.CampStatus) ([]*entity.DonationCamp, error) {
	return repo.camps.filter(func(c *entity.DonationCamp) bool {
		return c.Status == status
	})
}

func (repo *campRepository) ArchiveCampsBefore(_ context.Context, cutoff string) (int, error) {
	return repo.camps.updateWhere(
		func(c *entity.DonationCamp) bool {
			return c.Status != entity.CampArchived && c.Date < cutoff
		},
		func(c *entity.DonationCamp) {
			c.Status = entity.CampArchived
		},
	)
}
