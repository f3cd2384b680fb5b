package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Path string
}

type CarouselConfig struct {
	TickInterval time.Duration
	CardWidth    int
	HomeLimit    int
}

type ModalConfig struct {
	CloseDelay time.Duration
}

type AppConfig struct {
	Environment string
	API         APIConfig
	Storage     StorageConfig
	Carousel    CarouselConfig
	Modal       ModalConfig
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("LESTRANS")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// The base URL follows the environment unless it was set explicitly;
	// there is no static default for it.
	if cfg.API.BaseURL == "" {
		if cfg.Environment == "production" {
			cfg.API.BaseURL = prodAPIBaseURL
		} else {
			cfg.API.BaseURL = devAPIBaseURL
		}
	}

	return &cfg, nil
}

const (
	devAPIBaseURL  = "http://localhost:8000/api"
	prodAPIBaseURL = "https://frontend-aaa.onrender.com/api"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("api.baseurl", "")
	v.SetDefault("api.timeout", "15s")

	v.SetDefault("storage.path", "./data/session")

	v.SetDefault("carousel.tickinterval", "4s")
	v.SetDefault("carousel.cardwidth", 320)
	v.SetDefault("carousel.homelimit", 15)

	v.SetDefault("modal.closedelay", "300ms")
}
