package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/qr-menu-builder/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port           string
	GinMode        string
	DBDriver       string
	DBDSN          string
	PublicOrigin   string
	JWTSecret      string
	SessionKey     string
	UploadDir      string
	CORSOrigin     string
	ScanQueueSize  int
	ScanWorkers    int
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found, using process environment")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBDSN:          getEnv("DB_DSN", "qrmenu.db"),
		PublicOrigin:   getEnv("PUBLIC_ORIGIN", "http://localhost:8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionKey:     os.Getenv("SESSION_KEY"),
		UploadDir:      getEnv("UPLOAD_DIR", "public/uploads"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:3000"),
		ScanQueueSize:  getEnvInt("SCAN_QUEUE_SIZE", 256),
		ScanWorkers:    getEnvInt("SCAN_WORKERS", 2),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
	}

	if cfg.JWTSecret == "" {
		utils.ErrorLogger.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = "dev-secret-change-me"
	}
	if cfg.SessionKey == "" {
		utils.ErrorLogger.Warn("SESSION_KEY not set, using development key")
		cfg.SessionKey = "dev-session-key-change-me-32byte"
	}
	return cfg
}

// InitDB opens the configured database. mysql is used in production, sqlite
// for local development and tests.
func InitDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	utils.InfoLogger.Printf("Connected to %s database", cfg.DBDriver)
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.ErrorLogger.Warnf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		utils.ErrorLogger.Warnf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}
