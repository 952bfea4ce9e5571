// Package firestore implements the repository contracts on Cloud Firestore.
package firestore

import (
	"context"
	"log/slog"

	"bloodlink/config"
	"bloodlink/internal/domain/constants"
	"bloodlink/internal/domain/lifecycle"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Collection names.
const (
	collectionUsers        = "users"
	collectionInventory    = "inventory"
	collectionWatchlist    = "watchlist"
	collectionRequests     = "requests"
	collectionAppointments = "appointments"
	collectionCamps        = "donationCamps"
	collectionDonations    = "donations"
	collectionDevices      = "devices"
	collectionDeliveryLogs = "deliveryLogs"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
	App    *firebase.App `optional:"true"`
}

// NewClient opens the Firestore client of the Firebase app.
// It returns nil when the document store is not configured as firestore.
func NewClient(params Params) (*firestore.Client, error) {
	if params.Config.Store.Provider != constants.StoreProviderFirestore {
		return nil, nil //nolint:nilnil
	}
	if params.App == nil {
		return nil, errors.New("firestore store requires firebase configuration")
	}

	client, err := params.App.Firestore(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Firestore client")
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			// A missing document still proves connectivity and credentials.
			_, err := client.Collection(collectionInventory).Doc("_ping").Get(ctx)
			if err != nil && !isNotFound(err) {
				return errors.Wrap(err, "failed to reach Firestore")
			}
			params.Logger.Info("Connected to Firestore")

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
