package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Storage   *StorageConfig
	Auth      *AuthConfig
	Cache     *CacheConfig
	Email     *EmailConfig
	Upload    *UploadConfig
	Shop      *ShopConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // MODFY
	Environment    string        // development, production
	Port           string        // :8082
	ServerURL      string        // public base url of this api, used in email links
	FrontendURL    string        // used for verification redirects and email links
	LogLevel       string        // overrides the environment default when set
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxBodyBytes   int64
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Driver       string // postgres, pgx, mysql
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RetryEnabled bool
}

type StorageConfig struct {
	Driver string // database, memory
	Seed   bool
}

type AuthConfig struct {
	SessionStore       string // redis, memory
	SessionTTL         time.Duration
	CookieDomain       string
	VerificationSecret string
	VerificationExpiry time.Duration
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
}

type EmailConfig struct {
	ApiKey     string
	From       string
	AdminEmail string
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type ShopConfig struct {
	Currency              string
	FreeShippingThreshold uint64 // in cents
	WhatsAppNumber        string
}

type RateLimitConfig struct {
	Enabled       bool
	GeneralLimit  int
	GeneralWindow time.Duration
	AuthLimit     int
	AuthWindow    time.Duration
	AdminLimit    int
	AdminWindow   time.Duration
}
