// Package constants holds configuration values shared across layers.
package constants

// Environment names.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub providers for the side-effect task queue.
const (
	PubSubProviderInline = "inline"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Document store providers.
const (
	StoreProviderMemory    = "memory"
	StoreProviderFirestore = "firestore"
)

// Navigation targets used by the intake assistant.
const (
	PathSearch    = "/search"
	PathCamps     = "/camps"
	PathDashboard = "/dashboard"
)

// DefaultSlotCapacity is the number of scheduled appointments allowed per slot.
const DefaultSlotCapacity = 2
