package firestore

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
)

type campRepository struct {
	client *firestore.Client
}

// NewCampRepository is the constructor for campRepository.
func NewCampRepository(client *firestore.Client) repository.CampRepository {
	return &campRepository{client: client}
}

func (repo *campRepository) camps() *firestore.CollectionRef {
	return repo.client.Collection(collectionCamps)
}

func (repo *campRepository) CreateCamp(ctx context.Context, camp *entity.DonationCamp) error {
	ref := repo.camps().NewDoc()
	if _, err := ref.Create(ctx, fromCamp(camp)); err != nil {
		return translate(err, "failed to create camp")
	}
	camp.ID = ref.ID

	return nil
}

func (repo *campRepository) FindCampsByStatus(ctx context.Context, status entity.CampStatus) ([]*entity.DonationCamp, error) {
	return queryAll(ctx, repo.camps().Where("status", "==", string(status)), toCamp)
}

// ArchiveCampsBefore flags every upcoming camp dated before cutoff with a bulk writer.
func (repo *campRepository) ArchiveCampsBefore(ctx context.Context, cutoff string) (int, error) {
	snaps, err := repo.camps().
		Where("status", "==", string(entity.CampUpcoming)).
		Where("date", "<", cutoff).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, translate(err, "failed to find past camps")
	}
	if len(snaps) == 0 {
		return 0, nil
	}

	writer := repo.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(snaps))
	for _, snap := range snaps {
		job, err := writer.Update(snap.Ref, []firestore.Update{{Path: "status", Value: string(entity.CampArchived)}})
		if err != nil {
			writer.End()

			return 0, errors.Wrap(err, "failed to enqueue camp archive")
		}
		jobs = append(jobs, job)
	}
	writer.End()

	archived := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return archived, translate(err, "failed to archive camp")
		}
		archived++
	}

	return archived, nil
}
