package config

import (
	"database/sql"
	"errors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
	"strings"
	"time"
)

type Config struct {
	MinIOBucket string        `yaml:"minio_bucket"`
	App         App           `yaml:"app"`
	DB          *sql.DB       `yaml:"db"`
	Queue       *RabbitMQ     `yaml:"rabbitmq"`
	Storage     *minio.Client `yaml:"storage"`
	Server      Server        `yaml:"server"`
	Gemini      Gemini        `yaml:"gemini"`
	Generation  Generation    `yaml:"generation"`
	Sandbox     Sandbox       `yaml:"sandbox"`
	Telemetry   Telemetry     `yaml:"telemetry"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort       string   `yaml:"http_port"`
	Workers        int      `yaml:"workers"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Gemini struct {
	APIKey      string  `yaml:"api_key"`
	SmartModel  string  `yaml:"smart_model"`
	FastModel   string  `yaml:"fast_model"`
	Temperature float32 `yaml:"temperature"`
}

type Generation struct {
	Timeout  time.Duration `yaml:"timeout"`
	Blocking bool          `yaml:"blocking"`
}

type Sandbox struct {
	ReactURL    string `yaml:"react_url"`
	ReactDOMURL string `yaml:"react_dom_url"`
}

type Telemetry struct {
	Endpoint    string            `yaml:"endpoint"`
	Headers     map[string]string `yaml:"headers"`
	Insecure    bool              `yaml:"insecure"`
	SampleRatio float64           `yaml:"sample_ratio"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "develop")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.workers", 1)
	v.SetDefault("gemini.smart_model", "gemini-2.5-flash")
	v.SetDefault("gemini.fast_model", "gemini-2.5-flash-lite")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("generation.timeout", "5m")
	v.SetDefault("generation.blocking", false)
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.exchange_name", "lesson_events_exchange")
	v.SetDefault("rabbitmq.kind", "fanout")
	v.SetDefault("telemetry.sample_ratio", 1.0)
}

// Load reads config.yaml from path, with every key overridable from the
// environment (gemini.api_key -> GEMINI_API_KEY). Optional collaborators stay
// nil when their settings are absent.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		MinIOBucket: v.GetString("minio.bucket"),
		App: App{
			Environment: v.GetString("app.environment"),
			Host:        v.GetString("app.host"),
			Protocol:    v.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort:       v.GetString("server.port"),
			Workers:        v.GetInt("server.workers"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
		Gemini: Gemini{
			APIKey:      v.GetString("gemini.api_key"),
			SmartModel:  v.GetString("gemini.smart_model"),
			FastModel:   v.GetString("gemini.fast_model"),
			Temperature: float32(v.GetFloat64("gemini.temperature")),
		},
		Generation: Generation{
			Timeout:  v.GetDuration("generation.timeout"),
			Blocking: v.GetBool("generation.blocking"),
		},
		Sandbox: Sandbox{
			ReactURL:    v.GetString("sandbox.react_url"),
			ReactDOMURL: v.GetString("sandbox.react_dom_url"),
		},
		Telemetry: Telemetry{
			Endpoint:    v.GetString("telemetry.endpoint"),
			Headers:     v.GetStringMapString("telemetry.headers"),
			Insecure:    v.GetBool("telemetry.insecure"),
			SampleRatio: v.GetFloat64("telemetry.sample_ratio"),
		},
	}

	if dsn := v.GetString("postgres.dsn"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		cfg.DB = db
	}

	if host := v.GetString("rabbitmq.host"); host != "" {
		cfg.Queue = &RabbitMQ{
			Host:         host,
			Port:         v.GetInt("rabbitmq.port"),
			User:         v.GetString("rabbitmq.user"),
			Pass:         v.GetString("rabbitmq.pass"),
			ExchangeName: v.GetString("rabbitmq.exchange_name"),
			Kind:         v.GetString("rabbitmq.kind"),
		}
	}

	if url := v.GetString("minio.url"); url != "" {
		minioClient, err := minio.New(url, &minio.Options{
			Creds:  credentials.NewStaticV4(v.GetString("minio.access_id"), v.GetString("minio.secret_access_key"), ""),
			Secure: v.GetBool("minio.secure"),
		})
		if err != nil {
			return nil, err
		}
		cfg.Storage = minioClient
	}

	return cfg, nil
}
