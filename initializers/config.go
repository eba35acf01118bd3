package initializers

import (
	"fmt"
	"time"

	services "github.com/Itish41/portfolio-cms/service"
	"github.com/caarlos0/env/v11"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config is read from the environment (after LoadEnv).
type Config struct {
	Port        string `env:"PORT" envDefault:"5000"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`

	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/portfolio"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"portfolio"`

	DirectURL      string `env:"DIRECT_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://db/migrations"`

	JWTSecret     string        `env:"JWT_SECRET,required"`
	JWTExpire     time.Duration `env:"JWT_EXPIRE" envDefault:"168h"`
	AdminUsername string        `env:"ADMIN_USERNAME"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`

	SupabaseRegion    string `env:"SUPABASE_REGION"`
	SupabaseEndpoint  string `env:"SUPABASE_S3_ENDPOINT"`
	SupabaseAccessKey string `env:"SUPABASE_ACCESS_KEY"`
	SupabaseSecretKey string `env:"SUPABASE_SECRET_KEY"`
	SupabaseBucket    string `env:"SUPABASE_BUCKET"`
	SupabaseURL       string `env:"SUPABASE_S3_URL"`
	UploadDir         string `env:"UPLOAD_DIR" envDefault:"uploads"`

	ElasticsearchURL string `env:"ELASTICSEARCH_URL"`

	SMTPHost  string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort  string `env:"SMTP_PORT" envDefault:"587"`
	EmailUser string `env:"EMAIL_USER"`
	EmailPass string `env:"EMAIL_PASS"`

	CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:","`
	ExposeErrors bool     `env:"EXPOSE_ERRORS" envDefault:"false"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
}

func LoadConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo store")
		}
	case DriverPostgres:
		if c.DirectURL == "" {
			return fmt.Errorf("DIRECT_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q, want %s or %s", c.StoreDriver, DriverMongo, DriverPostgres)
	}
	if c.JWTExpire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be positive")
	}
	return nil
}

// UseS3 reports whether uploads go to the Supabase bucket instead of
// UploadDir.
func (c *Config) UseS3() bool {
	return c.SupabaseBucket != "" && c.SupabaseEndpoint != ""
}

func (c *Config) S3() services.S3Config {
	return services.S3Config{
		Region:    c.SupabaseRegion,
		Endpoint:  c.SupabaseEndpoint,
		AccessKey: c.SupabaseAccessKey,
		SecretKey: c.SupabaseSecretKey,
		Bucket:    c.SupabaseBucket,
		PublicURL: c.SupabaseURL,
	}
}

func (c *Config) SMTP() services.SMTPConfig {
	return services.SMTPConfig{Host: c.SMTPHost, Port: c.SMTPPort, User: c.EmailUser, Password: c.EmailPass}
}
