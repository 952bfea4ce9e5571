package firestore

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/pkg/errors"
)

const countAlias = "count"

type appointmentRepository struct {
	client *firestore.Client
}

// NewAppointmentRepository is the constructor for appointmentRepository.
func NewAppointmentRepository(client *firestore.Client) repository.AppointmentRepository {
	return &appointmentRepository{client: client}
}

func (repo *appointmentRepository) appointments() *firestore.CollectionRef {
	return repo.client.Collection(collectionAppointments)
}

func (repo *appointmentRepository) CreateAppointment(ctx context.Context, appointment *entity.Appointment) error {
	ref := repo.appointments().NewDoc()
	if _, err := ref.Create(ctx, fromAppointment(appointment)); err != nil {
		return translate(err, "failed to create appointment")
	}
	appointment.ID = ref.ID

	return nil
}

func (repo *appointmentRepository) FindAppointmentByID(ctx context.Context, id string) (*entity.Appointment, error) {
	snap, err := repo.appointments().Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "failed to find appointment")
	}

	return toAppointment(snap)
}

func (repo *appointmentRepository) UpdateAppointment(ctx context.Context, appointment *entity.Appointment) error {
	updates := []firestore.Update{{Path: "status", Value: string(appointment.Status)}}
	if appointment.CollectedBloodType != "" {
		updates = append(updates, firestore.Update{Path: "collectedBloodType", Value: string(appointment.CollectedBloodType)})
	}
	if appointment.CompletedAt != nil {
		updates = append(updates, firestore.Update{Path: "completedAt", Value: *appointment.CompletedAt})
	}
	if appointment.UpdatedAt != nil {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: *appointment.UpdatedAt})
	}

	_, err := repo.appointments().Doc(appointment.ID).Update(ctx, updates)

	return translate(err, "failed to update appointment")
}

// CountScheduledInSlot uses a server-side count aggregation.
func (repo *appointmentRepository) CountScheduledInSlot(ctx context.Context, slot entity.Slot) (int, error) {
	q := repo.appointments().
		Where("venueId", "==", slot.VenueID).
		Where("date", "==", slot.Date).
		Where("timeSlot", "==", slot.TimeSlot).
		Where("status", "==", string(entity.AppointmentScheduled))

	result, err := q.NewAggregationQuery().WithCount(countAlias).Get(ctx)
	if err != nil {
		return 0, translate(err, "failed to count slot appointments")
	}

	value, ok := result[countAlias].(*firestorepb.Value)
	if !ok {
		return 0, errors.Errorf("unexpected count result type %T", result[countAlias])
	}

	return int(value.GetIntegerValue()), nil
}

func (repo *appointmentRepository) FindAppointmentsByDonor(ctx context.Context, donorID string, statuses []entity.AppointmentStatus) ([]*entity.Appointment, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	q := repo.appointments().
		Where("donorId", "==", donorID).
		Where("status", "in", values)

	return queryAll(ctx, q, toAppointment)
}

func (repo *appointmentRepository) FindAppointmentsByVenue(ctx context.Context, venueID string) ([]*entity.Appointment, error) {
	return queryAll(ctx, repo.appointments().Where("venueId", "==", venueID), toAppointment)
}
