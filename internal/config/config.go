// Package config carga la configuración del servicio desde variables de entorno.
// Todas tienen default, así que el binario arranca sin .env (modo dev con archivo data.json).
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Backends soportados para el Record Store.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMySQL    = "mysql"
	StoreRedis    = "redis"
	StoreS3       = "s3"
)

type Config struct {
	Port    string
	AppName string

	LogLevel  string
	LogFormat string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Store      string // file|memory|postgres|mysql|redis|s3
	ReadPolicy string // recover|strict
	DataFile   string

	PostgresDSN string
	MySQLDSN    string

	Redis RedisConfig
	S3    S3Config
	AMQP  AMQPConfig

	StaticDir   string
	CORSOrigins []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Object    string
	Secure    bool
}

type AMQPConfig struct {
	URL   string // vacío = no se publican eventos
	Queue string
}

func Load() Config {
	return Config{
		Port:    envStr("PORT", "8080"),
		AppName: envStr("APP_NAME", "health-records"),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "text"),

		ReadTimeout:  envDur("READ_TIMEOUT", 5*time.Second),
		WriteTimeout: envDur("WRITE_TIMEOUT", 10*time.Second),

		Store:      strings.ToLower(envStr("RECORD_STORE", StoreFile)),
		ReadPolicy: envStr("STORE_READ_POLICY", "recover"),
		DataFile:   envStr("DATA_FILE", "data.json"),

		PostgresDSN: os.Getenv("DB_DSN"),
		MySQLDSN:    os.Getenv("MYSQL_DSN"),

		Redis: RedisConfig{
			Addr:     envStr("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
			Key:      envStr("REDIS_KEY", "health:records"),
		},
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Object:    envStr("S3_OBJECT", "data.json"),
			Secure:    envBool("S3_SECURE", true),
		},
		AMQP: AMQPConfig{
			URL:   firstNonEmpty(os.Getenv("AMQP_URL"), os.Getenv("RABBITMQ_URL")),
			Queue: envStr("AMQP_QUEUE", "record.submitted"),
		},

		StaticDir:   envStr("STATIC_DIR", defaultStaticDir()),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
	}
}

// Addr devuelve la dirección de escucha para http.Server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// defaultStaticDir sirve el directorio actual solo si trae un index.html.
func defaultStaticDir() string {
	if fi, err := os.Stat("index.html"); err == nil && !fi.IsDir() {
		return "."
	}
	return ""
}

func envStr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
		return dur
	}
	return d
}

// envList parsea CSV; entradas vacías se descartan.
func envList(k string, d []string) []string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	out := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return d
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
