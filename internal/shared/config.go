package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	// Exactly one origin is used; OriginDir wins when both are set.
	OriginBase string
	OriginDir  string
	OriginRPS  int

	AssetStore  string // memory | redis | mysql
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	MySQLDSN    string
	CachePrefix string

	ManifestFile  string
	InterestsFile string

	InstallWorkers    int
	InstallOnStart    bool
	PresentationDelay time.Duration
	SessionIdle       time.Duration
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMySQL  = "mysql"
)

// Load reads the environment, after merging an optional .env file from
// the working directory.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env present but unreadable")
	}
	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		LogLevel:          env("LOG_LEVEL", "info"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		MetricsAddr:       env("METRICS_ADDR", ""),
		OriginBase:        env("ORIGIN_BASE_URL", ""),
		OriginDir:         env("ORIGIN_DIR", ""),
		OriginRPS:         atoi("ORIGIN_RPS", 20),
		AssetStore:        strings.ToLower(env("ASSET_STORE", StoreMemory)),
		RedisAddr:         env("REDIS_ADDR", "localhost:6379"),
		RedisPass:         env("REDIS_PASSWORD", ""),
		RedisDB:           atoi("REDIS_DB", 0),
		MySQLDSN:          env("MYSQL_DSN", "root:root@tcp(localhost:3306)/mate?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		CachePrefix:       env("CACHE_PREFIX", DefaultCachePrefix),
		ManifestFile:      env("MANIFEST_FILE", ""),
		InterestsFile:     env("INTERESTS_FILE", ""),
		InstallWorkers:    atoi("INSTALL_WORKERS", 4),
		InstallOnStart:    boolean("INSTALL_ON_START", true),
		PresentationDelay: duration("PRESENTATION_DELAY", 600*time.Millisecond),
		SessionIdle:       duration("SESSION_IDLE", 30*time.Minute),
	}
	if c.OriginBase == "" && c.OriginDir == "" {
		log.Warn().Msg("neither ORIGIN_DIR nor ORIGIN_BASE_URL is set; defaulting ORIGIN_DIR to ./web")
		c.OriginDir = "./web"
	}
	switch {
	case c.SessionIdle <= 0:
		c.SessionIdle = 30 * time.Minute
	case c.SessionIdle < MinSessionIdle:
		log.Warn().Dur("session_idle", c.SessionIdle).Msg("SESSION_IDLE below minimum; raising to 1m")
		c.SessionIdle = MinSessionIdle
	}
	switch c.AssetStore {
	case StoreMemory, StoreRedis, StoreMySQL:
	default:
		log.Warn().Str("store", c.AssetStore).Msg("unknown ASSET_STORE; using memory")
		c.AssetStore = StoreMemory
	}
	return c
}

// MinSessionIdle is the shortest accepted SESSION_IDLE. The eviction
// ticker runs at half this interval.
const MinSessionIdle = time.Minute

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not a boolean; using default")
	}
	return def
}

// duration accepts Go durations ("600ms") and bare integers as milliseconds.
func duration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	log.Warn().Str("key", k).Str("value", v).Msg("not a duration; using default")
	return def
}
