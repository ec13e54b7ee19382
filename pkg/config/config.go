package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Scoring    ScoringConfig
	Updater    UpdaterConfig
	Validation ValidationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string `validate:"required"`
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// ScoringConfig carries the weighting and decay parameters. All of them
// feed the decay-rate denominator, so zero is a configuration error.
type ScoringConfig struct {
	LastNWeeks            int     `validate:"gt=0"`
	PWeight               float64 `validate:"gt=0"`
	WWeight               float64 `validate:"gt=0"`
	DecayWeight           float64 `validate:"gt=0"`
	DecayWeightMultiplier float64 `validate:"gt=0"`
}

type UpdaterConfig struct {
	MinRecordExpected int `validate:"gte=0"`
}

type ValidationConfig struct {
	NRec           int     `validate:"gt=0"`
	KVal           int     `validate:"gt=0"`
	AlphaVal       float64 `validate:"gte=0,lte=1"`
	BGCutpoint     int     `validate:"gt=0"`
	CycleCount     int     `validate:"gt=1"`
	NSample        int     `validate:"gt=0"`
	Seed           int64
	CFArtifactPath string  `validate:"required"`
	CBArtifactPath string  `validate:"required"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ml-brand-gender"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "5555"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "brand_gender"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Scoring: ScoringConfig{
			LastNWeeks:            getEnvInt("SCORING_LAST_N_WEEKS", 26),
			PWeight:               getEnvFloat("SCORING_P_WEIGHT", 10),
			WWeight:               getEnvFloat("SCORING_W_WEIGHT", 5),
			DecayWeight:           getEnvFloat("SCORING_DECAY_WEIGHT", 7),
			DecayWeightMultiplier: getEnvFloat("SCORING_DECAY_WEIGHT_MULTIPLIER", 0.25),
		},
		Updater: UpdaterConfig{
			MinRecordExpected: getEnvInt("MIN_NUMBER_OF_RECORD_EXPECTED", 80_000_000),
		},
		Validation: ValidationConfig{
			NRec:           getEnvInt("VALIDATION_N_VAL", 10),
			KVal:           getEnvInt("VALIDATION_K_VAL", 10),
			AlphaVal:       getEnvFloat("ALPHA_VAL", 0.5),
			BGCutpoint:     getEnvInt("REFERENCE_DATA_BG_CUTPOINT", 2),
			CycleCount:     getEnvInt("REFERENCE_DATA_CYCLE_COUNT", 3),
			NSample:        getEnvInt("VALIDATION_N_SAMPLE", 10_000),
			Seed:           int64(getEnvInt("VALIDATION_SEED", 0)),
			CFArtifactPath: getEnv("CF_ARTIFACT_PATH", "models/model_bg_cf.json"),
			CBArtifactPath: getEnv("CB_ARTIFACT_PATH", "models/model_bg_cb.json"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}

	return parsed
}
