package config

import "time"

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"product-catalog"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"product-catalog"`

	// PingTimeout bounds the broker check done at startup.
	PingTimeout time.Duration `env:"KAFKA_PING_TIMEOUT" envDefault:"5s"`
}
