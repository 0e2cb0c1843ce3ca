package config

import (
	"os"
	"strconv"
	"strings"

	"discovery_backend/internal/domain"
	"discovery_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	JWTSecret   string
	LogLevel    string
	LogJSON     bool

	// API limits
	APIRateLimit  int
	APIRateWindow int // seconds
	AuthRateLimit int

	Policy domain.RewardPolicy
}

// Load reads configuration from the environment (.env honored in dev).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   dbURL,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		JWTSecret:     jwtSecret,
		LogLevel:      envString("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_JSON") == "true",
		APIRateLimit:  envInt("API_RATE_LIMIT", 10),
		APIRateWindow: envInt("API_RATE_WINDOW_SECONDS", 60),
		AuthRateLimit: envInt("AUTH_RATE_LIMIT", 5),
		Policy:        loadPolicy(),
	}
}

// loadPolicy builds the reward policy from env, falling back to the
// production defaults for anything unset.
func loadPolicy() domain.RewardPolicy {
	p := domain.DefaultPolicy()

	p.StarterCoinsAmount = envInt64("STARTER_COINS_AMOUNT", p.StarterCoinsAmount)
	p.StarterCoinsValidityDays = envInt("STARTER_COINS_VALIDITY_DAYS", p.StarterCoinsValidityDays)
	p.CoinsPerAd = envInt64("COINS_PER_AD", p.CoinsPerAd)
	p.DailyAdCap = envInt("DAILY_AD_CAP", p.DailyAdCap)
	p.AdCooldownSeconds = envInt("AD_COOLDOWN_SECONDS", p.AdCooldownSeconds)
	p.FreeMinutesPerDay = envInt("FREE_MINUTES_PER_DAY", p.FreeMinutesPerDay)
	p.FreeMinutesValidityDays = envInt("FREE_MINUTES_VALIDITY_DAYS", p.FreeMinutesValidityDays)
	p.DefaultPerMinuteRate = envInt64("DEFAULT_PER_MINUTE_RATE", p.DefaultPerMinuteRate)

	if v := os.Getenv("STREAK_COIN_TABLE"); v != "" {
		if table := ParseStreakTable(v); len(table) > 0 {
			p.StreakCoinTable = table
		}
	}

	return p
}

// ParseStreakTable parses "1:5,2:10,3:15" into a day->coins map. Malformed
// entries are skipped.
func ParseStreakTable(s string) map[int]int64 {
	table := make(map[int]int64)
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}
		day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		coins, err2 := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err1 != nil || err2 != nil || day <= 0 || coins < 0 {
			continue
		}
		table[day] = coins
	}
	return table
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}
