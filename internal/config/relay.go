package config

import "time"

type Relay struct {
	BatchSize   uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval    time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
	Concurrency int           `env:"RELAY_CONCURRENCY" envDefault:"8"`
	// Retention is how long processed outbox messages are kept. Zero keeps them forever.
	Retention time.Duration `env:"RELAY_RETENTION" envDefault:"168h"`
}
