package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultStoreDriver   = "mongo"
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "kashvi_shop"
	defaultRedisAddr     = "localhost:6379"
	defaultAppPort       = "8080"
	defaultGRPCPort      = "9090"
	defaultAppEnv        = "local"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json, then .env, then the process environment.
// Later sources win.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":        defaultAppEnv,
		"APP_PORT":       defaultAppPort,
		"GRPC_PORT":      defaultGRPCPort,
		"STORE_DRIVER":   defaultStoreDriver,
		"MONGO_URI":      defaultMongoURI,
		"MONGO_DATABASE": defaultMongoDatabase,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"CACHE_DRIVER":   "memory",
		"QUEUE_DRIVER":   "memory",
	}
}

// StoreDriver selects the persistence backend: "mongo" or "memory".
func StoreDriver() string {
	driver := strings.ToLower(Get("STORE_DRIVER", defaultStoreDriver))
	switch driver {
	case "mongo", "memory":
		return driver
	default:
		return defaultStoreDriver
	}
}

func MongoURI() string      { return Get("MONGO_URI", defaultMongoURI) }
func MongoDatabase() string { return Get("MONGO_DATABASE", defaultMongoDatabase) }

func RedisAddr() string     { return Get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { return Get("REDIS_PASSWORD", "") }

// CacheDriver is "redis" or "memory".
func CacheDriver() string { return strings.ToLower(Get("CACHE_DRIVER", "memory")) }

// QueueDriver is "redis" or "memory".
func QueueDriver() string { return strings.ToLower(Get("QUEUE_DRIVER", "memory")) }

// QueueWorkers is the number of in-process job workers (default 2).
func QueueWorkers() int {
	if n := GetInt("QUEUE_WORKERS", 2); n > 0 {
		return n
	}
	return 2
}

func AppPort() string  { return Get("APP_PORT", defaultAppPort) }
func GRPCPort() string { return Get("GRPC_PORT", defaultGRPCPort) }
func AppEnv() string   { return Get("APP_ENV", defaultAppEnv) }

// LogToMongo reports whether log records are also shipped to Mongo.
func LogToMongo() bool { return GetBool("LOG_MONGO", false) }

// StrictOrderProducts makes order creation fail when a line item references
// a product that does not exist.
func StrictOrderProducts() bool { return GetBool("ORDER_STRICT_PRODUCTS", false) }

// RateLimit returns requests per second and burst for each client IP.
func RateLimit() (perSecond float64, burst int) {
	perSecond, err := strconv.ParseFloat(Get("RATE_LIMIT_RPS", "20"), 64)
	if err != nil || perSecond <= 0 {
		perSecond = 20
	}
	return perSecond, GetInt("RATE_LIMIT_BURST", 40)
}

// ── Auth ─────────────────────────────────────────────────────────────────────

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	DefaultBcryptCost      = 10
)

// AuthConfig holds every secret and lifetime used to issue tokens.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
}

// Auth returns the token settings. Secrets fall back to development values
// outside production.
func Auth() AuthConfig {
	return AuthConfig{
		AccessSecret:  Get("JWT_ACCESS_SECRET", "change-me-access"),
		RefreshSecret: Get("JWT_REFRESH_SECRET", "change-me-refresh"),
		AccessTTL:     GetDuration("JWT_ACCESS_TTL", DefaultAccessTokenTTL),
		RefreshTTL:    GetDuration("JWT_REFRESH_TTL", DefaultRefreshTokenTTL),
		BcryptCost:    GetInt("BCRYPT_COST", DefaultBcryptCost),
	}
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	return Get("STORAGE_DISK", "local")
}

func StorageLocalRoot() string {
	return Get("STORAGE_LOCAL_ROOT", "storage")
}

func StorageURL() string {
	return Get("STORAGE_URL", "http://localhost:8080/storage")
}

func StorageS3Bucket() string   { return Get("S3_BUCKET", "") }
func StorageS3Region() string   { return Get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { return Get("S3_KEY", "") }
func StorageS3Secret() string   { return Get("S3_SECRET", "") }
func StorageS3Endpoint() string { return Get("S3_ENDPOINT", "") }
func StorageS3URL() string      { return Get("S3_URL", "") }

// ── Loading ──────────────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	env, err := godotenv.Read(envPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: read %s: %w", envPath, err)
	}
	for k, v := range env {
		mergeValue(loaded, k, v)
	}

	for key := range loaded {
		if v, ok := os.LookupEnv(key); ok {
			mergeValue(loaded, key, v)
		}
	}
	for _, key := range knownKeys {
		if v, ok := os.LookupEnv(key); ok {
			mergeValue(loaded, key, v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

// knownKeys are read from the process environment even when neither file
// mentions them.
var knownKeys = []string{
	"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET", "JWT_ACCESS_TTL", "JWT_REFRESH_TTL", "BCRYPT_COST",
	"LOG_MONGO", "ORDER_STRICT_PRODUCTS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BODY_BYTES",
	"STORAGE_DISK", "STORAGE_LOCAL_ROOT", "STORAGE_URL",
	"S3_BUCKET", "S3_REGION", "S3_KEY", "S3_SECRET", "S3_ENDPOINT", "S3_URL",
	"QUEUE_WORKERS", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	for key, val := range raw {
		switch v := val.(type) {
		case string:
			mergeValue(out, key, v)
		case float64, bool:
			mergeValue(out, key, fmt.Sprint(v))
		}
	}

	return nil
}

func mergeValue(out map[string]string, key, value string) {
	k := strings.ToUpper(strings.TrimSpace(key))
	if k == "" {
		return
	}
	out[k] = strings.TrimSpace(value)
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// GetInt reads an integer key. Unparsable values yield fallback.
func GetInt(key string, fallback int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// GetBool reads a boolean key ("true", "1", "yes").
func GetBool(key string, fallback bool) bool {
	switch strings.ToLower(Get(key, "")) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}

// GetDuration reads a Go duration string such as "15m".
func GetDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(Get(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Set overrides a key at runtime. Intended for tests and CLI flags.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	mergeValue(values, key, value)
	mu.Unlock()
}
