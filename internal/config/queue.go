package config

import (
	"errors"
	"time"
)

const (
	defaultQueueExchange       = "multiyield.rewards"
	defaultQueuePublishTimeout = 5 * time.Second
)

// QueueConfig configures the RabbitMQ exchange reward events are published to.
type QueueConfig struct {
	Url            string        `mapstructure:"url"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Exchange       string        `mapstructure:"exchange"`
	PublishTimeout time.Duration `mapstructure:"publish-timeout"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return errors.New("queue url is required")
	}

	if cfg.Exchange == "" {
		cfg.Exchange = defaultQueueExchange
	}

	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultQueuePublishTimeout
	}

	return nil
}
