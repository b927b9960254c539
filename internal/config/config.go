package config

import (
	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup. Values come from
// a .env file when present, overridden by real environment variables.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`

	// Place search provider (Kakao-compatible local API).
	PlaceAPIBaseURL string `mapstructure:"PLACE_API_BASE_URL"`
	PlaceAPIKey     string `mapstructure:"PLACE_API_KEY"`

	// Google OAuth.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	// AWS: S3 photo storage plus SES comment notifications.
	AWSRegion     string `mapstructure:"AWS_REGION"`
	PhotoBucket   string `mapstructure:"PHOTO_BUCKET"`
	EmailFrom     string `mapstructure:"EMAIL_FROM"`
	EmailDisabled bool   `mapstructure:"EMAIL_DISABLED"`
}

// configKeys lists every key Unmarshal reads. Each one is bound to its
// environment variable explicitly: AutomaticEnv alone only resolves keys
// viper already knows about, so an env-only setting with no default and no
// .env entry would otherwise come back empty.
var configKeys = []string{
	"SERVER_PORT", "DATABASE_URL", "JWT_SECRET", "CLIENT_ORIGIN",
	"PLACE_API_BASE_URL", "PLACE_API_KEY",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	"AWS_REGION", "PHOTO_BUCKET", "EMAIL_FROM", "EMAIL_DISABLED",
}

// LoadConfig reads configuration from path/.env and the environment.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	for _, key := range configKeys {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("PLACE_API_BASE_URL", "https://dapi.kakao.com/v2/local")
	viper.SetDefault("AWS_REGION", "ap-northeast-2")
	viper.SetDefault("EMAIL_DISABLED", false)

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env file is fine; everything can come from the
		// environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
