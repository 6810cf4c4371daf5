package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Mail    MailConfig
	Booking BookingConfig
}

type AppConfig struct {
	Port        string
	Env         string
	FrontendURL string
}

type DBConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	ReplyTo  string
	// Enabled switches between the SMTP dispatcher and the log-only
	// dispatcher used in development.
	Enabled bool
}

type BookingConfig struct {
	// CancellationCutoff is how long before the approved slot start a
	// confirmed booking can still be cancelled by the user.
	CancellationCutoff time.Duration
	// VerificationResendInterval throttles verification email resends.
	VerificationResendInterval time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	cancellationCutoff, err := time.ParseDuration(viper.GetString("BOOKING_CANCELLATION_CUTOFF"))
	if err != nil {
		cancellationCutoff = 24 * time.Hour
	}

	resendInterval, err := time.ParseDuration(viper.GetString("BOOKING_VERIFICATION_RESEND_INTERVAL"))
	if err != nil {
		resendInterval = 60 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:        viper.GetString("APP_PORT"),
			Env:         viper.GetString("APP_ENV"),
			FrontendURL: viper.GetString("FRONTEND_URL"),
		},
		DB: DBConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			Name:          viper.GetString("DB_NAME"),
			MigrationsDir: viper.GetString("DB_MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Mail: MailConfig{
			Host:     viper.GetString("MAIL_HOST"),
			Port:     viper.GetString("MAIL_PORT"),
			Username: viper.GetString("MAIL_USERNAME"),
			Password: viper.GetString("MAIL_PASSWORD"),
			From:     viper.GetString("MAIL_FROM"),
			ReplyTo:  viper.GetString("MAIL_REPLY_TO"),
			Enabled:  viper.GetBool("MAIL_ENABLED"),
		},
		Booking: BookingConfig{
			CancellationCutoff:         cancellationCutoff,
			VerificationResendInterval: resendInterval,
		},
	}

	if config.DB.MigrationsDir == "" {
		config.DB.MigrationsDir = "db/migrations"
	}

	return config, nil
}
