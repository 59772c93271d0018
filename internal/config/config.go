package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`
	GRPCPort string `mapstructure:"GRPC_PORT"`

	HealthCheckInterval time.Duration `mapstructure:"HEALTH_CHECK_INTERVAL"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	CourseCacheTTL time.Duration `mapstructure:"COURSE_CACHE_TTL"`

	AccessSecret  string        `mapstructure:"ACCESS_SECRET"`
	RefreshSecret string        `mapstructure:"REFRESH_SECRET"`
	AccessTTL     time.Duration `mapstructure:"ACCESS_TTL"`
	RefreshTTL    time.Duration `mapstructure:"REFRESH_TTL"`
	BcryptCost    int           `mapstructure:"BCRYPT_COST"`

	UploadDir         string        `mapstructure:"UPLOAD_DIR"`
	ClassifierURL     string        `mapstructure:"CLASSIFIER_URL"`
	ClassifierTimeout time.Duration `mapstructure:"CLASSIFIER_TIMEOUT"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	LogMode        string `mapstructure:"LOG_MODE"`
}

// LoadConfig reads app.env from path if it exists; environment variables win.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", ":5000")
	v.SetDefault("GRPC_PORT", "")
	v.SetDefault("HEALTH_CHECK_INTERVAL", "15s")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "lms")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("COURSE_CACHE_TTL", "1h")
	v.SetDefault("ACCESS_TTL", "15m")
	v.SetDefault("REFRESH_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("CLASSIFIER_URL", "http://localhost:8000/predict/")
	v.SetDefault("CLASSIFIER_TIMEOUT", "30s")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_MODE", "development")

	// no defaults for secrets, bind explicitly so Unmarshal sees them
	v.BindEnv("DB_PASSWORD")
	v.BindEnv("ACCESS_SECRET")
	v.BindEnv("REFRESH_SECRET")

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	err = config.validate()
	return
}

func (c Config) validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return fmt.Errorf("ACCESS_SECRET and REFRESH_SECRET must be set")
	}
	if c.HealthCheckInterval <= 0 {
		return fmt.Errorf("HEALTH_CHECK_INTERVAL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBName
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
