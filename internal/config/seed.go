package config

type Seed struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@producthub.com"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin123"`
	AdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Admin User"`
	Products      bool   `env:"SEED_PRODUCTS" envDefault:"false"`
}
