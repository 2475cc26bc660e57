package config

import (
	"fmt"
	"strings"
)

type Storage struct {
	Driver StorageDriver `env:"STORAGE_DRIVER" envDefault:"LOCAL"`

	LocalDir   string `env:"STORAGE_LOCAL_DIR" envDefault:"uploads"`
	PublicPath string `env:"STORAGE_PUBLIC_PATH" envDefault:"/uploads"`

	S3Bucket    string `env:"STORAGE_S3_BUCKET"`
	S3Region    string `env:"STORAGE_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"STORAGE_S3_ENDPOINT"`
	S3PublicURL string `env:"STORAGE_S3_PUBLIC_URL"`

	// MaxImageWidth is the width uploads are downscaled to. Zero disables resizing.
	MaxImageWidth uint `env:"STORAGE_MAX_IMAGE_WIDTH" envDefault:"1600"`
}

// StorageDriver selects where uploaded images are written.
type StorageDriver uint8

const (
	StorageDriverLocal StorageDriver = iota
	StorageDriverS3
)

func (d StorageDriver) String() string {
	return []string{"LOCAL", "S3"}[d]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *StorageDriver) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "LOCAL":
		*d = StorageDriverLocal
	case "S3":
		*d = StorageDriverS3
	default:
		return fmt.Errorf("unknown storage driver: %s", text)
	}
	return nil
}

func (d StorageDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
