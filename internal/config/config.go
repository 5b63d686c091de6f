package config

import "time"

// Config es la configuración del servicio. Prioridad: ENV > YAML > env-default.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Auth      AuthConfig      `yaml:"auth"`
	Media     MediaConfig     `yaml:"media"`
	Log       LogConfig       `yaml:"log"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Directory DirectoryConfig `yaml:"directory"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StoreConfig: driver memory | postgres | sqlite.
type StoreConfig struct {
	Driver       string `yaml:"driver"         env:"STORE_DRIVER"         env-default:"memory"`
	DSN          string `yaml:"dsn"            env:"DB_DSN"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"    env-default:"10"`
	Migrate      bool   `yaml:"migrate"        env:"STORE_MIGRATE"        env-default:"true"`
}

// AuthConfig: con JWTSecret se validan tokens localmente; con IdentityURL se
// delega en el identity provider; sin ninguno queda el modo dev (X-Debug-User-ID).
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"pet-adoption-hub"`
	IdentityURL    string        `yaml:"identity_url"     env:"AUTH_IDENTITY_URL"`
	IdentityAPIKey string        `yaml:"identity_api_key" env:"AUTH_IDENTITY_API_KEY"`
	Timeout        time.Duration `yaml:"timeout"          env:"AUTH_TIMEOUT"          env-default:"5s"`
	DevMode        bool          `yaml:"dev_mode"         env:"AUTH_DEV_MODE"         env-default:"false"`
}

// MediaConfig: driver memory | s3.
type MediaConfig struct {
	Driver          string `yaml:"driver"            env:"MEDIA_DRIVER"            env-default:"memory"`
	Bucket          string `yaml:"bucket"            env:"MEDIA_S3_BUCKET"`
	Region          string `yaml:"region"            env:"MEDIA_S3_REGION"         env-default:"us-east-1"`
	Endpoint        string `yaml:"endpoint"          env:"MEDIA_S3_ENDPOINT"`
	PathStyle       bool   `yaml:"path_style"        env:"MEDIA_S3_PATH_STYLE"     env-default:"false"`
	AccessKeyID     string `yaml:"access_key_id"     env:"MEDIA_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MEDIA_S3_SECRET_ACCESS_KEY"`
	PublicBaseURL   string `yaml:"public_base_url"   env:"MEDIA_PUBLIC_BASE_URL"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type CatalogConfig struct {
	SnapshotTTL time.Duration `yaml:"snapshot_ttl" env:"CATALOG_SNAPSHOT_TTL" env-default:"30s"`
}

type DirectoryConfig struct {
	RebuildTTL time.Duration `yaml:"rebuild_ttl" env:"DIRECTORY_REBUILD_TTL" env-default:"5m"`
}

func (c AuthConfig) UsesJWT() bool      { return c.JWTSecret != "" }
func (c AuthConfig) UsesIdentity() bool { return c.IdentityURL != "" }
