package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Model backends
const (
	BackendInference = "inference"
	BackendLexicon   = "lexicon"
)

// Config holds all configuration for the sentiment service
type Config struct {
	// Server
	Host        string `envconfig:"HOST" default:"0.0.0.0" validate:"required"`
	Port        int    `envconfig:"PORT" default:"7860" validate:"min=1,max=65535"`
	Environment string `envconfig:"GO_ENV" default:"development"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`

	// Model
	ModelBackend     string        `envconfig:"MODEL_BACKEND" default:"inference" validate:"oneof=inference lexicon"`
	ModelName        string        `envconfig:"MODEL_NAME" default:"cardiffnlp/twitter-roberta-base-sentiment-latest"`
	ModelLabels      []string      `envconfig:"MODEL_LABELS" validate:"omitempty,len=3,unique,dive,required"`
	InferenceURL     string        `envconfig:"INFERENCE_URL" default:"http://localhost:8000/predict" validate:"omitempty,url"`
	InferenceHealth  string        `envconfig:"INFERENCE_HEALTH_URL" default:"http://localhost:8000/health" validate:"omitempty,url"`
	InferenceToken   string        `envconfig:"INFERENCE_TOKEN"`
	InferenceTimeout time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"30s" validate:"gt=0"`

	// Circuit breaker around the model
	BreakerFailureThreshold int           `envconfig:"BREAKER_FAILURE_THRESHOLD" default:"5" validate:"min=1"`
	BreakerTimeout          time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s" validate:"gt=0"`

	// Outcome events, disabled when NATSURL is empty
	NATSURL     string `envconfig:"NATS_URL"`
	NATSSubject string `envconfig:"NATS_SUBJECT" default:"sentiment.analyzed" validate:"required"`

	// Tracing, disabled when empty
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Form examples, embedded list when empty
	ExamplesFile string `envconfig:"EXAMPLES_FILE"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
}

var validate = validator.New()

// Load reads configuration from the environment, after an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.ModelBackend == BackendInference && c.InferenceURL == "" {
		return fmt.Errorf("invalid configuration: INFERENCE_URL is required for the %s backend", BackendInference)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
