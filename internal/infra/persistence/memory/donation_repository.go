package memory

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"github.com/google/uuid"
)

type donationRepository struct {
	donations *collection[*entity.Donation]
}

// NewDonationRepository returns the donations log of the store.
func NewDonationRepository(store *Store) repository.DonationRepository {
	return &donationRepository{donations: store.donations}
}

func (repo *donationRepository) AppendDonation(_ context.Context, donation *entity.Donation) error {
	if donation.ID == "" {
		donation.ID = uuid.NewString()
	}

	return repo.donations.insert(donation.ID, donation)
}

func (repo *donationRepository) FindDonationsByVenue(_ context.Context, venueID string) ([]*entity.Donation, error) {
	return repo.donations.filter(func(d *entity.Donation) bool {
		return d.VenueID == venueID
	})
}
