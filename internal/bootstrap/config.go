package bootstrap

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageFile  = "file"
	StorageRedis = "redis"
	StorageMongo = "mongo"

	OnCorruptAbort = "abort"
	OnCorruptFresh = "fresh"
)

type Config struct {
	BasePath      string `mapstructure:"BASE_PATH"`
	Storage       string `mapstructure:"STORAGE"`
	RedisUrl      string `mapstructure:"REDIS_URL"`
	RedisKey      string `mapstructure:"REDIS_KEY"`
	MongoUri      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	DumpDir       string `mapstructure:"DUMP_DIR"`
	DotBinary     string `mapstructure:"DOT_BINARY"`
	AtlasPath     string `mapstructure:"ATLAS_PATH"`
	AtlasFont     string `mapstructure:"ATLAS_FONT"`
	ServerPort    string `mapstructure:"SERVER_PORT"`
	IsLocalCors   bool   `mapstructure:"LOCAL_CORS"`
	OnCorrupt     string `mapstructure:"ON_CORRUPT"`
	Seed          bool   `mapstructure:"SEED"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogPath       string `mapstructure:"LOG_PATH"`
}

var defaults = map[string]any{
	"BASE_PATH":      "base.txt",
	"STORAGE":        StorageFile,
	"REDIS_URL":      "localhost:6379",
	"REDIS_KEY":      "akinator:base",
	"MONGO_URI":      "mongodb://localhost:27017",
	"MONGO_DATABASE": "akinator",
	"DUMP_DIR":       "dump",
	"DOT_BINARY":     "dot",
	"ATLAS_PATH":     "atlas.pdf",
	"ATLAS_FONT":     "",
	"SERVER_PORT":    ":8080",
	"LOCAL_CORS":     false,
	"ON_CORRUPT":     OnCorruptAbort,
	"SEED":           true,
	"LOG_LEVEL":      "info",
	"LOG_PATH":       "",
}

// Setup reads cfgPath (an env file) on top of the defaults; process
// environment wins over both. A missing file is fine.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("env")
		err := v.ReadInConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.OnCorrupt = strings.ToLower(strings.TrimSpace(cfg.OnCorrupt))
	switch cfg.Storage {
	case StorageFile, StorageRedis, StorageMongo:
	default:
		return nil, errors.New("unknown STORAGE " + cfg.Storage)
	}
	switch cfg.OnCorrupt {
	case OnCorruptAbort, OnCorruptFresh:
	default:
		return nil, errors.New("unknown ON_CORRUPT " + cfg.OnCorrupt)
	}

	return &cfg, nil
}
