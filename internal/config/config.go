package config

import (
	"os"
	"strconv"
)

type Config struct {
	Database  DatabaseConfig
	SIS       SISConfig
	Embedding EmbeddingConfig
	Camera    CameraConfig
	Gallery   GalleryConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

// SISConfig points at an external student information system.
// When DatabaseURL is set, roster lookups read from that MariaDB/MySQL
// instance instead of the local students table.
type SISConfig struct {
	DatabaseURL string // MySQL DSN (e.g., sis:sis@tcp(sis-db:3306)/school)
}

type EmbeddingConfig struct {
	URL string // defaults to http://localhost:8000
	Dim int    // defaults to 512
}

type CameraConfig struct {
	Device     int    // video capture device id (default 0)
	PreviewDir string // directory for annotated preview frames (empty disables previews)
}

type GalleryConfig struct {
	Dir string // directory of <ENROLLMENT>.<ext> photos (default static/uploads)
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envIntAllowZero is like envInt but accepts zero (camera device 0 is valid).
func envIntAllowZero(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

func Load() *Config {
	galleryDir := os.Getenv("GALLERY_DIR")
	if galleryDir == "" {
		galleryDir = "static/uploads"
	}

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		SIS: SISConfig{
			DatabaseURL: os.Getenv("SIS_DATABASE_URL"),
		},
		Embedding: EmbeddingConfig{
			URL: os.Getenv("EMBEDDING_URL"),
			Dim: envInt("EMBEDDING_DIM", 512),
		},
		Camera: CameraConfig{
			Device:     envIntAllowZero("CAMERA_DEVICE", 0),
			PreviewDir: os.Getenv("PREVIEW_DIR"),
		},
		Gallery: GalleryConfig{
			Dir: galleryDir,
		},
	}
}
