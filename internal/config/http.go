package config

type HTTP struct {
	Port               uint32   `env:"HTTP_PORT" envDefault:"8000"`
	Swagger            bool     `env:"HTTP_SWAGGER" envDefault:"true"`
	CORSAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	// MaxUploadSize bounds multipart request bodies, in bytes.
	MaxUploadSize int64 `env:"HTTP_MAX_UPLOAD_SIZE" envDefault:"10485760"`
}
