package config

import "time"

type Auth struct {
	JWTSecret  string        `env:"AUTH_JWT_SECRET,required,notEmpty"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h"`
	BcryptCost int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}
