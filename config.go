package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Supported repository drivers.
const (
	HTTPRepository     = "http"
	RedisRepository    = "redis"
	BoltRepository     = "bolt"
	PostgresRepository = "postgres"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string              `yaml:"git_commit" envconfig:"BKS_GIT_COMMIT"`
	GitTag             string              `yaml:"git_tag" envconfig:"BKS_GIT_TAG"`
	BuildTime          string              `yaml:"build_time" envconfig:"BKS_BUILD_TIME"`
	IsProduction       bool                `yaml:"is_production" envconfig:"BKS_IS_PRODUCTION"`
	LogLevel           zapcore.Level       `yaml:"log_level" envconfig:"BKS_LOG_LEVEL"`
	LogFolder          string              `yaml:"log_folder" envconfig:"BKS_LOG_FOLDER"`
	LogMaxSize         int                 `yaml:"log_max_size" envconfig:"BKS_LOG_MAX_SIZE"`
	OpsEndpointsEnable bool                `yaml:"ops_endpoints_enable" envconfig:"BKS_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig        `yaml:"server"`
	Store              StoreConfig         `yaml:"store"`
	Remote             RemoteConfig        `yaml:"remote"`
	Redis              RedisConfig         `yaml:"redis"`
	BoltDB             BoltDBConfig        `yaml:"boltdb"`
	Postgres           PostgresConfig      `yaml:"postgres"`
	Notifications      NotificationsConfig `yaml:"notifications"`
	Intents            IntentsConfig       `yaml:"intents"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BKS_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BKS_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BKS_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BKS_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BKS_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BKS_SERVER_SHUTDOWN_TIMEOUT"`
}

type StoreConfig struct {
	Repository  string `yaml:"repository" envconfig:"BKS_STORE_REPOSITORY"`
	QueueSize   int    `yaml:"queue_size" envconfig:"BKS_STORE_QUEUE_SIZE"`
	LoadOnStart bool   `yaml:"load_on_start" envconfig:"BKS_STORE_LOAD_ON_START"`
}

type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BKS_REMOTE_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"BKS_REMOTE_TIMEOUT"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BKS_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BKS_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BKS_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BKS_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BKS_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BKS_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BKS_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BKS_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BKS_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BKS_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BKS_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BKS_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BKS_BOLTDB_BUCKET_NAME"`
}

type PostgresConfig struct {
	DSN            string        `yaml:"dsn" envconfig:"BKS_POSTGRES_DSN"`
	MaxConns       int32         `yaml:"max_conns" envconfig:"BKS_POSTGRES_MAX_CONNS"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"BKS_POSTGRES_CONNECT_TIMEOUT"`
}

// NotificationsConfig controls where failure messages are sent besides the logs.
type NotificationsConfig struct {
	RedisEnable  bool          `yaml:"redis_enable" envconfig:"BKS_NOTIFICATIONS_REDIS_ENABLE"`
	RedisChannel string        `yaml:"redis_channel" envconfig:"BKS_NOTIFICATIONS_REDIS_CHANNEL"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"BKS_NOTIFICATIONS_TIMEOUT"`
}

// IntentsConfig controls the redis queue consumer feeding intents into the store.
type IntentsConfig struct {
	QueueEnable bool   `yaml:"queue_enable" envconfig:"BKS_INTENTS_QUEUE_ENABLE"`
	QueueName   string `yaml:"queue_name" envconfig:"BKS_INTENTS_QUEUE_NAME"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 30 * time.Second
	}

	if config.Store.QueueSize <= 0 {
		config.Store.QueueSize = 64
	}

	if config.Notifications.Timeout == 0 {
		config.Notifications.Timeout = 2 * time.Second
	}

	switch config.Store.Repository {
	case "":
		config.Store.Repository = HTTPRepository
		fallthrough
	case HTTPRepository:
		if len(config.Remote.BaseURL) == 0 {
			return errors.New("make sure to set the remote base url when using the http repository")
		}
	case BoltRepository:
		if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set boltdb file path and bucket name in configuration file")
		}
	case PostgresRepository:
		if len(config.Postgres.DSN) == 0 {
			return errors.New("make sure to set postgres dsn in configuration file")
		}
		if config.Postgres.ConnectTimeout == 0 {
			config.Postgres.ConnectTimeout = 10 * time.Second
		}
	case RedisRepository:
	default:
		return fmt.Errorf("unknown repository driver %q", config.Store.Repository)
	}

	if config.NeedsRedis() && (len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0) {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if config.Intents.QueueEnable && len(config.Intents.QueueName) == 0 {
		config.Intents.QueueName = DefaultIntentsQueue
	}

	if config.Notifications.RedisEnable && len(config.Notifications.RedisChannel) == 0 {
		config.Notifications.RedisChannel = DefaultNotificationsChannel
	}

	return nil
}

// NeedsRedis tells whether any configured component relies on redis.
func (c *Config) NeedsRedis() bool {
	return c.Store.Repository == RedisRepository || c.Intents.QueueEnable || c.Notifications.RedisEnable
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BKS`.
	err = LoadConfigEnvs("BKS", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
