// Package firebase initializes the Firebase app shared by Cloud Messaging and Firestore.
package firebase

import (
	"context"
	"log/slog"

	"bloodlink/config"

	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// Params defines the required parameters
type Params struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewApp creates the Firebase app. It returns nil when Firebase is not configured.
func NewApp(params Params) (*firebase.App, error) {
	cfg := params.Config.Firebase
	if cfg == nil {
		params.Logger.Info("Firebase not configured, push and Firestore are disabled")

		return nil, nil //nolint:nilnil
	}

	opts := make([]option.ClientOption, 0, 1)
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	var appCfg *firebase.Config
	if cfg.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(params.Ctx, appCfg, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	return app, nil
}
