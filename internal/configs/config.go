package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const defaultAccountsPrefix = "api/accounts/"

type Config struct {
	Env struct {
		CurrentEnv           string `yaml:"current_env"`
		BaseAPIUrl           string `yaml:"base_api_url"`
		FrontendURL          string `yaml:"frontend_url"`
		MobileRedirectScheme string `yaml:"mobile_redirect_scheme"`
	} `yaml:"env"`

	DB struct {
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
		Migrate  bool   `yaml:"migrate"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"redis_addr"`
		Username string `yaml:"redis_username"`
		Password string `yaml:"redis_password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Providers struct {
		GoogleClientID     string `yaml:"google_client_id"`
		GoogleClientSecret string `yaml:"google_client_secret"`
		FBClientID         string `yaml:"facebook_client_id"`
		FBClientSecret     string `yaml:"facebook_client_secret"`
		GithubClientID     string `yaml:"github_client_id"`
		GithubClientSecret string `yaml:"github_client_secret"`
	} `yaml:"providers"`

	Mail struct {
		EmailAPIKey  string `yaml:"email_api_key"`
		SenderEmail  string `yaml:"sender_email"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     string `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_username"`
		SMTPPassword string `yaml:"smtp_password"`
	} `yaml:"mail"`

	Security struct {
		RefreshTokenHashSecret string        `yaml:"refresh_token_hash_secret"`
		RateLimit              int           `yaml:"rate_limit"`
		RateWindow             time.Duration `yaml:"rate_window"`
	} `yaml:"security"`

	Routes struct {
		AccountsPrefix string `yaml:"accounts_prefix"`
	} `yaml:"routes"`
}

// Load reads internal/configs/dev.yml, or prod.yml when env is "production".
func Load(env string) (*Config, error) {
	configFile := "dev.yml"
	if env == "production" {
		configFile = "prod.yml"
	}
	return LoadFile(filepath.Join("internal", "configs", configFile), env)
}

func LoadFile(configPath, env string) (*Config, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	zap.L().Info("loading config", zap.String("path", configPath))

	var cfg Config
	expanded := os.Expand(string(raw), func(key string) string {
		if key == "DB_PASSWORD" {
			return os.Getenv(dbPasswordVar(env))
		}
		return os.Getenv(key)
	})
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", configPath, err)
	}

	if cfg.DB.Password == "" {
		cfg.DB.Password = getPassword(env)
	}
	if cfg.Env.CurrentEnv == "" {
		cfg.Env.CurrentEnv = env
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = "mysql"
	}
	if cfg.Env.BaseAPIUrl == "" {
		cfg.Env.BaseAPIUrl = "http://localhost:8080"
	}
	if cfg.Env.FrontendURL == "" {
		cfg.Env.FrontendURL = "http://localhost:3000"
	}
	if cfg.Env.MobileRedirectScheme == "" {
		cfg.Env.MobileRedirectScheme = "nativeoauth"
	}
	if cfg.Routes.AccountsPrefix == "" {
		cfg.Routes.AccountsPrefix = defaultAccountsPrefix
	}
	if !strings.HasSuffix(cfg.Routes.AccountsPrefix, "/") {
		cfg.Routes.AccountsPrefix += "/"
	}
	cfg.Routes.AccountsPrefix = strings.TrimPrefix(cfg.Routes.AccountsPrefix, "/")
	if cfg.Security.RateLimit == 0 {
		cfg.Security.RateLimit = 30
	}
	if cfg.Security.RateWindow == 0 {
		cfg.Security.RateWindow = time.Minute
	}
}

func (c *Config) IsProduction() bool {
	return c.Env.CurrentEnv == "production"
}

// DataSourceName returns the configured DSN, or builds a MySQL one from the discrete fields.
func (c *Config) DataSourceName() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name,
	)
}

func dbPasswordVar(env string) string {
	if env == "production" {
		return "PROD_DB_PASSWORD"
	}
	return "DEV_DB_PASSWORD"
}

func getPassword(env string) string {
	secretFile := ".dev_db_password"
	if env == "production" {
		secretFile = ".prod_db_password"
	}

	// Lookup order: environment, .env file, secrets file.
	if pass := os.Getenv(dbPasswordVar(env)); pass != "" {
		return pass
	}

	if err := godotenv.Load(); err == nil {
		if pass := os.Getenv(dbPasswordVar(env)); pass != "" {
			return pass
		}
	}

	secretPath := filepath.Join("..", "secrets", secretFile)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}

	return ""
}
