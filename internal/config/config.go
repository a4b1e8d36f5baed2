package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"database"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	SMTP   SMTPConfig   `mapstructure:"smtp"`
	Stripe StripeConfig `mapstructure:"stripe"`
	OAuth  OAuthConfig  `mapstructure:"oauth"`
	Model  ModelConfig  `mapstructure:"model"`
	Trial  TrialConfig  `mapstructure:"trial"`
	Admin  AdminConfig  `mapstructure:"admin"`
}

type ServerConfig struct {
	Port       string `mapstructure:"port"`
	Mode       string `mapstructure:"mode"`
	AppBaseURL string `mapstructure:"app_base_url"`
}

type DBConfig struct {
	PostgresURL string `mapstructure:"postgres_url"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	UseSSL   bool   `mapstructure:"use_ssl"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	PriceID       string `mapstructure:"price_id"`
	SuccessURL    string `mapstructure:"success_url"`
	CancelURL     string `mapstructure:"cancel_url"`
}

type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"google_client_id"`
	GoogleClientSecret string `mapstructure:"google_client_secret"`
	GoogleRedirectURL  string `mapstructure:"google_redirect_url"`
}

type ModelConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Name        string  `mapstructure:"name"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

type TrialConfig struct {
	ChatLimit        int `mapstructure:"chat_limit"`
	CallLimitSeconds int `mapstructure:"call_limit_seconds"`
	CallMaxSessions  int `mapstructure:"call_max_sessions"`
}

type AdminConfig struct {
	// The primary admin is exempt from every freeze/cancel transition and
	// bypasses the access gate.
	PrimaryEmail string `mapstructure:"primary_email"`
}

// Load reads config.yaml if present and overlays THERALINK_* environment
// variables (e.g. THERALINK_DATABASE_POSTGRES_URL).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("THERALINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.app_base_url", "https://theralinkapp.com")

	v.SetDefault("jwt.expire_minutes", 60)

	v.SetDefault("smtp.host", "smtp.hostinger.com")
	v.SetDefault("smtp.port", 465)
	v.SetDefault("smtp.use_ssl", true)
	v.SetDefault("smtp.from", "support@theralinkapp.com")
	v.SetDefault("smtp.from_name", "TheraLink Support")

	v.SetDefault("stripe.success_url", "https://theralinkapp.com/payment_success?session_id={CHECKOUT_SESSION_ID}")
	v.SetDefault("stripe.cancel_url", "https://theralinkapp.com/payment_failed")

	v.SetDefault("model.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("model.name", "llama-3.1-8b-instant")
	v.SetDefault("model.temperature", 0.8)
	v.SetDefault("model.max_tokens", 400)

	v.SetDefault("trial.chat_limit", 50)
	v.SetDefault("trial.call_limit_seconds", 300)
	v.SetDefault("trial.call_max_sessions", 5)

	v.SetDefault("admin.primary_email", "support@theralinkapp.com")
}
