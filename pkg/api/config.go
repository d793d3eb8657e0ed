package api

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the server configuration, read from WORDCLOUD_* environment
// variables.
type Config struct {
	Addr          string        `envconfig:"ADDR" default:":8080"`
	RedisURL      string        `envconfig:"REDIS_URL"`
	MongoURI      string        `envconfig:"MONGO_URI"`
	MongoDatabase string        `envconfig:"MONGO_DATABASE" default:"wordcloud"`
	MaxBody       int64         `envconfig:"MAX_BODY" default:"8388608"`
	RenderTimeout time.Duration `envconfig:"RENDER_TIMEOUT" default:"60s"`
	CacheEntries  int           `envconfig:"CACHE_ENTRIES" default:"1024"`
	CacheScope    string        `envconfig:"CACHE_SCOPE"` // key prefix when several deployments share a redis
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("wordcloud", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
