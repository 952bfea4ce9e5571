package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"bloodlink/internal/domain/constants"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultReplyDelay         = time.Second
	defaultNavigateDelay      = 3 * time.Second
	defaultSessionTTL         = 30 * time.Minute
	defaultCampArchiveSpec    = "0 3 * * *"
	defaultSessionSweepSpec   = "@every 5m"
	defaultCampGraceDays      = 2
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		// AllowOrigins is the CORS allow list of the web client.
		AllowOrigins []string `json:"allowOrigins" yaml:"allowOrigins"`
		Timeouts     struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Dispatcher is the Pub/Sub push worker; it shares the HTTP timeouts above
	Dispatcher struct {
		Port int `json:"port" yaml:"port"`
	} `json:"dispatcher" yaml:"dispatcher"`

	// Store selects the document store backing users, inventories, requests and appointments
	Store StoreConfig `json:"store" yaml:"store"`

	// Postgres stores devices and delivery logs when configured
	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Redis backs the distributed slot lock when configured
	Redis *RedisConfig `json:"redis" yaml:"redis"`

	// Firebase configuration for push notifications and Firestore
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// Email configuration for the EmailJS REST API
	Email *EmailConfig `json:"email" yaml:"email"`

	// QRCode configuration for certificate QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// PubSub configuration for task publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	Booking   BookingConfig   `json:"booking" yaml:"booking"`
	Intake    IntakeConfig    `json:"intake" yaml:"intake"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StoreConfig defines the document store provider
type StoreConfig struct {
	// Provider type: "memory" or "firestore"
	Provider string `json:"provider" yaml:"provider"`
}

// RedisConfig defines the Redis connection used for slot locking
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	// LockTTL bounds how long a crashed holder can keep a slot locked
	LockTTL time.Duration `json:"lockTTL" yaml:"lockTTL"`
}

// FirebaseConfig defines Firebase configuration for push notifications and Firestore
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// EmailConfig defines EmailJS credentials and templates
type EmailConfig struct {
	BaseURL            string        `json:"baseUrl" yaml:"baseUrl"`
	ServiceID          string        `json:"serviceId" yaml:"serviceId"`
	PublicKey          string        `json:"publicKey" yaml:"publicKey"`
	PrivateKey         string        `json:"privateKey" yaml:"privateKey"`
	RequestTemplateID  string        `json:"requestTemplateId" yaml:"requestTemplateId"`
	AcceptedTemplateID string        `json:"acceptedTemplateId" yaml:"acceptedTemplateId"`
	Timeout            time.Duration `json:"timeout" yaml:"timeout"`
	// AppURL is the web client origin used for action links
	AppURL string `json:"appUrl" yaml:"appUrl"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// PubSubConfig defines Pub/Sub configuration for task publishing
type PubSubConfig struct {
	// Provider type: "inline", "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// QueueSize is the buffer of the inline queue
	QueueSize int `json:"queueSize" yaml:"queueSize"`
}

// BookingConfig defines appointment booking limits
type BookingConfig struct {
	SlotCapacity int `json:"slotCapacity" yaml:"slotCapacity"`
}

// IntakeConfig defines the emergency chatbot timing
type IntakeConfig struct {
	ReplyDelay    time.Duration `json:"replyDelay" yaml:"replyDelay"`
	NavigateDelay time.Duration `json:"navigateDelay" yaml:"navigateDelay"`
	SessionTTL    time.Duration `json:"sessionTTL" yaml:"sessionTTL"`
}

// SchedulerConfig defines the cron jobs of the API process
type SchedulerConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// CampArchiveSpec is the cron spec of the camp archival job
	CampArchiveSpec string `json:"campArchiveSpec" yaml:"campArchiveSpec"`
	// CampArchiveGraceDays keeps past camps visible for this many days
	CampArchiveGraceDays int `json:"campArchiveGraceDays" yaml:"campArchiveGraceDays"`
	// SessionSweepSpec is the cron spec of the chat session expiry job
	SessionSweepSpec string `json:"sessionSweepSpec" yaml:"sessionSweepSpec"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyDefaults fills the values the service cannot run without.
func applyDefaults(cfg *Config) {
	if cfg.Store.Provider == "" {
		cfg.Store.Provider = constants.StoreProviderMemory
	}
	if cfg.Booking.SlotCapacity <= 0 {
		cfg.Booking.SlotCapacity = constants.DefaultSlotCapacity
	}
	if cfg.Intake.ReplyDelay <= 0 {
		cfg.Intake.ReplyDelay = defaultReplyDelay
	}
	if cfg.Intake.NavigateDelay <= 0 {
		cfg.Intake.NavigateDelay = defaultNavigateDelay
	}
	if cfg.Intake.SessionTTL <= 0 {
		cfg.Intake.SessionTTL = defaultSessionTTL
	}
	if cfg.Scheduler.CampArchiveSpec == "" {
		cfg.Scheduler.CampArchiveSpec = defaultCampArchiveSpec
	}
	if cfg.Scheduler.SessionSweepSpec == "" {
		cfg.Scheduler.SessionSweepSpec = defaultSessionSweepSpec
	}
	if cfg.Scheduler.CampArchiveGraceDays <= 0 {
		cfg.Scheduler.CampArchiveGraceDays = defaultCampGraceDays
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
