package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal      = "local"
	EnvDev        = "dev"
	EnvProduction = "production"

	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all the configuration for the application.
type Config struct {
	Env           string `yaml:"env" env:"ENV" env-default:"production"`
	Storage       string `yaml:"storage" env:"STORAGE" env-default:"postgres"`
	HTTPServer    `yaml:"http_server"`
	Database      `yaml:"database"`
	Auth          `yaml:"auth"`
	URLShortener  `yaml:"url_shortener"`
	ClickRecorder `yaml:"click_recorder"`
	Geo           `yaml:"geo"`
	Title         `yaml:"title"`
	Cache         `yaml:"cache"`
	RateLimit     `yaml:"rate_limit"`
	Log           `yaml:"log"`
}

// HTTPServer holds HTTP listener configuration.
type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5001"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"shrinkit"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// Auth holds token issuance settings.
type Auth struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"720h"`
	Issuer     string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"ShrinkIt"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// URLShortener holds service-specific configuration.
type URLShortener struct {
	BaseURL    string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:5001"`
	CodeLength int    `yaml:"code_length" env:"CODE_LENGTH" env-default:"7"`
}

// ClickRecorder sizes the background click recording pool.
type ClickRecorder struct {
	Workers         int           `yaml:"workers" env:"CLICK_WORKERS" env-default:"3"`
	BufferSize      int           `yaml:"buffer_size" env:"CLICK_BUFFER_SIZE" env-default:"1000"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"CLICK_WRITE_TIMEOUT" env-default:"5s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"CLICK_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// Geo configures the best-effort IP geolocation lookup.
type Geo struct {
	Endpoint string        `yaml:"endpoint" env:"GEO_ENDPOINT" env-default:"http://ip-api.com/json"`
	Timeout  time.Duration `yaml:"timeout" env:"GEO_TIMEOUT" env-default:"2s"`
	// SimulateLocalIP replaces loopback/private client addresses with
	// SentinelIP before the lookup. Never honoured in production.
	SimulateLocalIP bool   `yaml:"simulate_local_ip" env:"GEO_SIMULATE_LOCAL_IP" env-default:"false"`
	SentinelIP      string `yaml:"sentinel_ip" env:"GEO_SENTINEL_IP" env-default:"182.79.255.254"`
}

// Title configures the AI title suggestion upstream.
type Title struct {
	APIKey   string        `yaml:"api_key" env:"COHERE_API_KEY"`
	Endpoint string        `yaml:"endpoint" env:"COHERE_ENDPOINT" env-default:"https://api.cohere.ai/v1/chat"`
	Model    string        `yaml:"model" env:"COHERE_MODEL" env-default:"command-r"`
	Timeout  time.Duration `yaml:"timeout" env:"COHERE_TIMEOUT" env-default:"8s"`
}

// Cache configures the optional Redis cache in front of short code lookups.
// An empty Address disables caching.
type Cache struct {
	Address  string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"10m"`
}

// RateLimit throttles the public redirect endpoint.
type RateLimit struct {
	Enabled bool    `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"true"`
	RPS     float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"100"`
	Burst   int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"200"`
}

// Log configures optional file output.
type Log struct {
	File string `yaml:"file" env:"LOG_FILE"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml"
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	cfg.normalize()
	return &cfg
}

// normalize enforces cross-field rules that cleanenv tags cannot express.
func (c *Config) normalize() {
	if c.Env == EnvProduction && c.Geo.SimulateLocalIP {
		log.Println("geo.simulate_local_ip is ignored in production")
		c.Geo.SimulateLocalIP = false
	}
	if c.URLShortener.CodeLength <= 0 {
		c.URLShortener.CodeLength = 7
	}
}
