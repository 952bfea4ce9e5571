package firestore

import (
	"time"

	"bloodlink/internal/domain/entity"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type coordinateDoc struct {
	Lat float64 `firestore:"lat"`
	Lng float64 `firestore:"lng"`
}

type donationRecordDoc struct {
	VenueID   string `firestore:"venueId"`
	VenueName string `firestore:"venueName"`
	BloodType string `firestore:"bloodType"`
	Date      string `firestore:"date"`
}

type donorProfileDoc struct {
	BloodType       string              `firestore:"bloodType"`
	City            string              `firestore:"city"`
	Phone           string              `firestore:"phone"`
	LastDonation    *time.Time          `firestore:"lastDonation"`
	TotalDonations  int                 `firestore:"totalDonations"`
	DonationHistory []donationRecordDoc `firestore:"donationHistory"`
	RegisteredAt    time.Time           `firestore:"registeredAt"`
}

type userDoc struct {
	Name                 string           `firestore:"name"`
	Email                string           `firestore:"email"`
	Role                 string           `firestore:"role"`
	IsDonor              bool             `firestore:"isDonor"`
	IsEligible           bool             `firestore:"isEligible"`
	EligibilityCheckedAt *time.Time       `firestore:"eligibilityCheckedAt,omitempty"`
	DonorProfile         *donorProfileDoc `firestore:"donorProfile,omitempty"`
	CreatedAt            time.Time        `firestore:"createdAt"`
}

type inventoryDoc struct {
	HospitalName string         `firestore:"hospitalName"`
	Address      string         `firestore:"address"`
	Location     *coordinateDoc `firestore:"location,omitempty"`
	BloodStock   map[string]int `firestore:"bloodStock"`
	Status       string         `firestore:"status"`
	UpdatedAt    time.Time      `firestore:"updatedAt"`
}

type watchlistDoc struct {
	UserID    string    `firestore:"userId"`
	BloodType string    `firestore:"bloodType"`
	Location  string    `firestore:"location"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type requestDoc struct {
	SeekerID    string     `firestore:"seekerId"`
	SeekerName  string     `firestore:"seekerName"`
	DonorID     string     `firestore:"donorId"`
	DonorName   string     `firestore:"donorName"`
	BloodType   string     `firestore:"bloodType"`
	Status      string     `firestore:"status"`
	DonorPhone  string     `firestore:"donorPhone,omitempty"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	RespondedAt *time.Time `firestore:"respondedAt,omitempty"`
	UpdatedAt   *time.Time `firestore:"updatedAt,omitempty"`
}

type appointmentDoc struct {
	VenueID            string     `firestore:"venueId"`
	VenueName          string     `firestore:"venueName"`
	VenueType          string     `firestore:"venueType"`
	DonorID            string     `firestore:"donorId"`
	DonorName          string     `firestore:"donorName"`
	Date               string     `firestore:"date"`
	TimeSlot           string     `firestore:"timeSlot"`
	Status             string     `firestore:"status"`
	CollectedBloodType string     `firestore:"collectedBloodType,omitempty"`
	CompletedAt        *time.Time `firestore:"completedAt,omitempty"`
	CreatedAt          time.Time  `firestore:"createdAt"`
	UpdatedAt          *time.Time `firestore:"updatedAt,omitempty"`
}

type campDoc struct {
	OrganizerID   string         `firestore:"organizerId"`
	OrganizerName string         `firestore:"organizerName"`
	CampName      string         `firestore:"campName"`
	Date          string         `firestore:"date"`
	Time          string         `firestore:"time"`
	Location      string         `firestore:"location"`
	Coordinates   *coordinateDoc `firestore:"coordinates,omitempty"`
	Description   string         `firestore:"description"`
	Status        string         `firestore:"status"`
	CreatedAt     time.Time      `firestore:"createdAt"`
}

type donationDoc struct {
	DonorID   string `firestore:"donorId"`
	VenueID   string `firestore:"venueId"`
	VenueName string `firestore:"venueName"`
	BloodType string `firestore:"bloodType"`
	Date      string `firestore:"date"`
}

type deviceDoc struct {
	UserID     string    `firestore:"userId"`
	FCMToken   string    `firestore:"fcmToken"`
	DeviceID   string    `firestore:"deviceId"`
	Platform   string    `firestore:"platform"`
	Permission string    `firestore:"permission"`
	IsActive   bool      `firestore:"isActive"`
	CreatedAt  time.Time `firestore:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt"`
}

type deliveryLogDoc struct {
	TaskID       string    `firestore:"taskId"`
	Channel      string    `firestore:"channel"`
	Kind         string    `firestore:"kind"`
	Recipient    string    `firestore:"recipient"`
	Status       string    `firestore:"status"`
	ErrorMessage string    `firestore:"errorMessage"`
	SentAt       time.Time `firestore:"sentAt"`
}

// --- Mapper Functions ---

func fromCoordinate(c *entity.Coordinate) *coordinateDoc {
	if c == nil {
		return nil
	}

	return &coordinateDoc{Lat: c.Lat, Lng: c.Lng}
}

func toCoordinate(c *coordinateDoc) *entity.Coordinate {
	if c == nil {
		return nil
	}

	return &entity.Coordinate{Lat: c.Lat, Lng: c.Lng}
}

func fromDonationRecord(r entity.DonationRecord) donationRecordDoc {
	return donationRecordDoc{VenueID: r.VenueID, VenueName: r.VenueName, BloodType: string(r.BloodType), Date: r.Date}
}

func toDonationRecord(r donationRecordDoc) entity.DonationRecord {
	return entity.DonationRecord{VenueID: r.VenueID, VenueName: r.VenueName, BloodType: entity.BloodType(r.BloodType), Date: r.Date}
}

func fromDonorProfile(p *entity.DonorProfile) *donorProfileDoc {
	if p == nil {
		return nil
	}
	history := make([]donationRecordDoc, 0, len(p.DonationHistory))
	for _, r := range p.DonationHistory {
		history = append(history, fromDonationRecord(r))
	}

	return &donorProfileDoc{
		BloodType:       string(p.BloodType),
		City:            p.City,
		Phone:           p.Phone,
		LastDonation:    p.LastDonation,
		TotalDonations:  p.TotalDonations,
		DonationHistory: history,
		RegisteredAt:    p.RegisteredAt,
	}
}

func toDonorProfile(d *donorProfileDoc) *entity.DonorProfile {
	if d == nil {
		return nil
	}
	history := make([]entity.DonationRecord, 0, len(d.DonationHistory))
	for _, r := range d.DonationHistory {
		history = append(history, toDonationRecord(r))
	}

	return &entity.DonorProfile{
		BloodType:       entity.BloodType(d.BloodType),
		City:            d.City,
		Phone:           d.Phone,
		LastDonation:    d.LastDonation,
		TotalDonations:  d.TotalDonations,
		DonationHistory: history,
		RegisteredAt:    d.RegisteredAt,
	}
}

func fromUser(u *entity.User) *userDoc {
	return &userDoc{
		Name:                 u.Name,
		Email:                u.Email,
		Role:                 string(u.Role),
		IsDonor:              u.IsDonor,
		IsEligible:           u.IsEligible,
		EligibilityCheckedAt: u.EligibilityCheckedAt,
		DonorProfile:         fromDonorProfile(u.DonorProfile),
		CreatedAt:            u.CreatedAt,
	}
}

func toUser(snap *firestore.DocumentSnapshot) (*entity.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode user %s", snap.Ref.ID)
	}

	return &entity.User{
		UID:                  snap.Ref.ID,
		Name:                 d.Name,
		Email:                d.Email,
		Role:                 entity.Role(d.Role),
		IsDonor:              d.IsDonor,
		IsEligible:           d.IsEligible,
		EligibilityCheckedAt: d.EligibilityCheckedAt,
		DonorProfile:         toDonorProfile(d.DonorProfile),
		CreatedAt:            d.CreatedAt,
	}, nil
}

func fromInventory(i *entity.Inventory) *inventoryDoc {
	stock := make(map[string]int, len(i.BloodStock))
	for bt, n := range i.BloodStock {
		stock[string(bt)] = n
	}

	return &inventoryDoc{
		HospitalName: i.HospitalName,
		Address:      i.Address,
		Location:     fromCoordinate(i.Location),
		BloodStock:   stock,
		Status:       string(i.Status),
		UpdatedAt:    i.UpdatedAt,
	}
}

func toInventory(snap *firestore.DocumentSnapshot) (*entity.Inventory, error) {
	var d inventoryDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode inventory %s", snap.Ref.ID)
	}
	stock := make(map[entity.BloodType]int, len(d.BloodStock))
	for bt, n := range d.BloodStock {
		stock[entity.BloodType(bt)] = n
	}

	return &entity.Inventory{
		HospitalID:   snap.Ref.ID,
		HospitalName: d.HospitalName,
		Address:      d.Address,
		Location:     toCoordinate(d.Location),
		BloodStock:   stock,
		Status:       entity.InventoryStatus(d.Status),
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func fromWatchlistEntry(e *entity.WatchlistEntry) *watchlistDoc {
	return &watchlistDoc{
		UserID:    e.UserID,
		BloodType: string(e.BloodType),
		Location:  e.Location,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}

func toWatchlistEntry(snap *firestore.DocumentSnapshot) (*entity.WatchlistEntry, error) {
	var d watchlistDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode watchlist entry %s", snap.Ref.ID)
	}

	return &entity.WatchlistEntry{
		ID:        snap.Ref.ID,
		UserID:    d.UserID,
		BloodType: entity.BloodType(d.BloodType),
		Location:  d.Location,
		Status:    entity.WatchlistStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}, nil
}

func fromRequest(r *entity.BloodRequest) *requestDoc {
	return &requestDoc{
		SeekerID:    r.SeekerID,
		SeekerName:  r.SeekerName,
		DonorID:     r.DonorID,
		DonorName:   r.DonorName,
		BloodType:   string(r.BloodType),
		Status:      string(r.Status),
		DonorPhone:  r.DonorPhone,
		CreatedAt:   r.CreatedAt,
		RespondedAt: r.RespondedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRequest(snap *firestore.DocumentSnapshot) (*entity.BloodRequest, error) {
	var d requestDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode request %s", snap.Ref.ID)
	}

	return &entity.BloodRequest{
		ID:          snap.Ref.ID,
		SeekerID:    d.SeekerID,
		SeekerName:  d.SeekerName,
		DonorID:     d.DonorID,
		DonorName:   d.DonorName,
		BloodType:   entity.BloodType(d.BloodType),
		Status:      entity.RequestStatus(d.Status),
		DonorPhone:  d.DonorPhone,
		CreatedAt:   d.CreatedAt,
		RespondedAt: d.RespondedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func fromAppointment(a *entity.Appointment) *appointmentDoc {
	return &appointmentDoc{
		VenueID:            a.VenueID,
		VenueName:          a.VenueName,
		VenueType:          string(a.VenueType),
		DonorID:            a.DonorID,
		DonorName:          a.DonorName,
		Date:               a.Date,
		TimeSlot:           a.TimeSlot,
		Status:             string(a.Status),
		CollectedBloodType: string(a.CollectedBloodType),
		CompletedAt:        a.CompletedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func toAppointment(snap *firestore.DocumentSnapshot) (*entity.Appointment, error) {
	var d appointmentDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode appointment %s", snap.Ref.ID)
	}

	return &entity.Appointment{
		ID:                 snap.Ref.ID,
		VenueID:            d.VenueID,
		VenueName:          d.VenueName,
		VenueType:          entity.VenueType(d.VenueType),
		DonorID:            d.DonorID,
		DonorName:          d.DonorName,
		Date:               d.Date,
		TimeSlot:           d.TimeSlot,
		Status:             entity.AppointmentStatus(d.Status),
		CollectedBloodType: entity.BloodType(d.CollectedBloodType),
		CompletedAt:        d.CompletedAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

func fromCamp(c *entity.DonationCamp) *campDoc {
	return &campDoc{
		OrganizerID:   c.OrganizerID,
		OrganizerName: c.OrganizerName,
		CampName:      c.CampName,
		Date:          c.Date,
		Time:          c.Time,
		Location:      c.Location,
		Coordinates:   fromCoordinate(c.Coordinates),
		Description:   c.Description,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
	}
}

func toCamp(snap *firestore.DocumentSnapshot) (*entity.DonationCamp, error) {
	var d campDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode camp %s", snap.Ref.ID)
	}

	return &entity.DonationCamp{
		ID:            snap.Ref.ID,
		OrganizerID:   d.OrganizerID,
		OrganizerName: d.OrganizerName,
		CampName:      d.CampName,
		Date:          d.Date,
		Time:          d.Time,
		Location:      d.Location,
		Coordinates:   toCoordinate(d.Coordinates),
		Description:   d.Description,
		Status:        entity.CampStatus(d.Status),
		CreatedAt:     d.CreatedAt,
	}, nil
}

func toDonation(snap *firestore.DocumentSnapshot) (*entity.Donation, error) {
	var d donationDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode donation %s", snap.Ref.ID)
	}

	return &entity.Donation{
		ID:      snap.Ref.ID,
		DonorID: d.DonorID,
		DonationRecord: entity.DonationRecord{
			VenueID:   d.VenueID,
			VenueName: d.VenueName,
			BloodType: entity.BloodType(d.BloodType),
			Date:      d.Date,
		},
	}, nil
}

func fromDonation(d *entity.Donation) *donationDoc {
	return &donationDoc{
		DonorID:   d.DonorID,
		VenueID:   d.VenueID,
		VenueName: d.VenueName,
		BloodType: string(d.BloodType),
		Date:      d.Date,
	}
}

func fromDevice(d *entity.UserDevice) *deviceDoc {
	return &deviceDoc{
		UserID:     d.UserID,
		FCMToken:   d.FCMToken,
		DeviceID:   d.DeviceID,
		Platform:   d.Platform,
		Permission: string(d.Permission),
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toDevice(snap *firestore.DocumentSnapshot) (*entity.UserDevice, error) {
	var d deviceDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode device %s", snap.Ref.ID)
	}
	id, err := uuid.Parse(snap.Ref.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "parse device id %s", snap.Ref.ID)
	}

	return &entity.UserDevice{
		ID:         id,
		UserID:     d.UserID,
		FCMToken:   d.FCMToken,
		DeviceID:   d.DeviceID,
		Platform:   d.Platform,
		Permission: entity.NotificationPermission(d.Permission),
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

func fromDeliveryLog(l *entity.DeliveryLog) *deliveryLogDoc {
	return &deliveryLogDoc{
		TaskID:       l.TaskID,
		Channel:      string(l.Channel),
		Kind:         l.Kind,
		Recipient:    l.Recipient,
		Status:       string(l.Status),
		ErrorMessage: l.ErrorMessage,
		SentAt:       l.SentAt,
	}
}

func toDeliveryLog(snap *firestore.DocumentSnapshot) (*entity.DeliveryLog, error) {
	var d deliveryLogDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errors.Wrapf(err, "decode delivery log %s", snap.Ref.ID)
	}
	id, err := uuid.Parse(snap.Ref.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "parse delivery log id %s", snap.Ref.ID)
	}

	return &entity.DeliveryLog{
		ID:           id,
		TaskID:       d.TaskID,
		Channel:      entity.DeliveryChannel(d.Channel),
		Kind:         d.Kind,
		Recipient:    d.Recipient,
		Status:       entity.DeliveryStatus(d.Status),
		ErrorMessage: d.ErrorMessage,
		SentAt:       d.SentAt,
	}, nil
}
