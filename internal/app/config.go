package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Neo4j struct {
	URI                  string `yaml:"uri"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Database             string `yaml:"database"`
	MaxConnectionPool    int    `yaml:"max_connections"`
	ConnectTimeoutSecond int    `yaml:"connect_timeout_second"`
	TxTimeoutSecond      int    `yaml:"tx_timeout_second"`
}

type Retry struct {
	Attempts       int `yaml:"attempts"`
	BackoffSeconds int `yaml:"backoff_seconds"`
}

type Scrape struct {
	BaseURL       string   `yaml:"base_url"`
	ActorID       string   `yaml:"actor_id"`
	APIToken      string   `yaml:"api_token"`
	Tokens        []string `yaml:"tokens"`
	MaxItems      int      `yaml:"max_items"`
	StartDate     string   `yaml:"start_date"`
	MinFavorites  int      `yaml:"min_favorites"`
	MinReplies    int      `yaml:"min_replies"`
	MinRetweets   int      `yaml:"min_retweets"`
	TimeoutSecond int      `yaml:"timeout_second"`
	Retry         Retry    `yaml:"retry"`
}

type Storage struct {
	BaseURL       string `yaml:"base_url"`
	GatewayURL    string `yaml:"gateway_url"`
	APIKey        string `yaml:"api_key"`
	SecretAPIKey  string `yaml:"secret_api_key"`
	TimeoutSecond int    `yaml:"timeout_second"`
}

type Registry struct {
	DSN string `yaml:"dsn"`
}

type Sync struct {
	IntervalHours    int  `yaml:"interval_hours"`
	TriggerImmediate bool `yaml:"trigger_immediate"`
}

type HTTP struct {
	Listen string `yaml:"listen"`
}

type Config struct {
	Neo4j    Neo4j    `yaml:"neo4j"`
	Scrape   Scrape   `yaml:"scrape"`
	Storage  Storage  `yaml:"storage"`
	Registry Registry `yaml:"registry"`
	Sync     Sync     `yaml:"sync"`
	HTTP     HTTP     `yaml:"http"`
}

// LoadConfig 从文件加载配置，.env 与环境变量覆盖敏感项。
func LoadConfig(path string) (Config, error) {
	var cfg Config
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.applyEnv()

	if cfg.Sync.IntervalHours == 0 {
		cfg.Sync.IntervalHours = 6
	}
	if cfg.Sync.IntervalHours < 1 || cfg.Sync.IntervalHours > 24 {
		return cfg, fmt.Errorf("sync.interval_hours 必须在 1 到 24 之间，当前为 %d", cfg.Sync.IntervalHours)
	}
	return cfg, nil
}

// applyEnv 用环境变量覆盖敏感配置，避免把密钥写进 yaml。
func (c *Config) applyEnv() {
	setIfEnv(&c.Neo4j.URI, "GRAPH_DB_URL")
	setIfEnv(&c.Neo4j.Username, "GRAPH_DB_USER")
	setIfEnv(&c.Neo4j.Password, "GRAPH_DB_PASSWORD")
	setIfEnv(&c.Scrape.APIToken, "APIFY_API_KEY")
	setIfEnv(&c.Storage.APIKey, "PINATA_API_KEY")
	setIfEnv(&c.Storage.SecretAPIKey, "PINATA_SECRET_API_KEY")
	setIfEnv(&c.Registry.DSN, "POSTGRES_DSN")
	if v := os.Getenv("INDEXER_INTERVAL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.Sync.IntervalHours = hours
		}
	}
	if v := os.Getenv("TRIGGER_IMMEDIATE"); v != "" {
		c.Sync.TriggerImmediate = v == "true" || v == "1"
	}
}

func setIfEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
