package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Activity ActivityConfig `mapstructure:"activity" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// MaxUploadBytes caps document image uploads.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey   string  `mapstructure:"gemini_api_key"   validate:"required"`
	ModelName      string  `mapstructure:"model_name"       validate:"required"`
	ImageModelName string  `mapstructure:"image_model_name" validate:"required"`
	Temperature    float32 `mapstructure:"temperature"      validate:"gte=0,lte=2"`
	// RequestTimeoutSeconds bounds each outbound model call. Zero leaves the
	// SDK defaults in charge.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=0"`
}

// ActivityConfig selects and configures the activity log storage backend.
type ActivityConfig struct {
	Backend     string `mapstructure:"backend"      validate:"required,oneof=memory postgres redis"`
	MaxEntries  int    `mapstructure:"max_entries"  validate:"gt=0"`
	StorageKey  string `mapstructure:"storage_key"  validate:"required"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
	RedisURL    string `mapstructure:"redis_url"    validate:"required_if=Backend redis"`
}

// AuthConfig contains learner token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}
