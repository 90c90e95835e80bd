// Package config loads run settings from a .env file and the environment.
// The values become the defaults of the command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the settings of one generation run.
type Config struct {
	DataDir        string
	BackgroundsDir string
	OutputDir      string
	CategoriesFile string
	Count          int
	Seed           uint64
	Workers        int
	Prefix         string
	Format         string
	Quality        int
}

// Load reads .env from the working directory (a missing file is fine) and
// fills a Config from DEFECTGEN_* variables, falling back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	dataDir := getEnv("DEFECTGEN_DATA_DIR", "make_data")
	return &Config{
		DataDir:        dataDir,
		BackgroundsDir: getEnv("DEFECTGEN_BACKGROUNDS", "backgrounds"),
		OutputDir:      getEnv("DEFECTGEN_OUTPUT", "output"),
		CategoriesFile: getEnv("DEFECTGEN_CATEGORIES", ""),
		Count:          getEnvAsInt("DEFECTGEN_COUNT", 500),
		Seed:           getEnvAsUint64("DEFECTGEN_SEED", 0),
		Workers:        getEnvAsInt("DEFECTGEN_WORKERS", runtime.NumCPU()),
		Prefix:         getEnv("DEFECTGEN_PREFIX", "aug_adv"),
		Format:         getEnv("DEFECTGEN_FORMAT", "jpg"),
		Quality:        getEnvAsInt("DEFECTGEN_QUALITY", 95),
	}
}

// Resolve joins a relative path onto the data directory.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
