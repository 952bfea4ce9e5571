package firestore

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
)

type donationRepository struct {
	client *firestore.Client
}

// NewDonationRepository is the constructor for donationRepository.
func NewDonationRepository(client *firestore.Client) repository.DonationRepository {
	return &donationRepository{client: client}
}

func (repo *donationRepository) AppendDonation(ctx context.Context, donation *entity.Donation) error {
	ref := repo.client.Collection(collectionDonations).NewDoc()
	if _, err := ref.Create(ctx, fromDonation(donation)); err != nil {
		return translate(err, "failed to append donation")
	}
	donation.ID = ref.ID

	return nil
}

func (repo *donationRepository) FindDonationsByVenue(ctx context.Context, venueID string) ([]*entity.Donation, error) {
	q := repo.client.Collection(collectionDonations).Where("venueId", "==", venueID)

	return queryAll(ctx, q, toDonation)
}
