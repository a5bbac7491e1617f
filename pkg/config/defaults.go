// Package config provides centralized default values for the HUZILERZ storefront gateway
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Commerce backend
	GraphQLEndpoint        string
	BackendRequestTimeout  time.Duration
	StorefrontDomainSuffix string

	// Session lifetimes
	GuestSessionTTL    time.Duration
	CustomerSessionTTL time.Duration

	// Session storage
	SessionDBPath string
	SessionDBURL  string
	SessionDBAuth string

	// Database Pool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Cart coordinator
	QuantityDebounceWindow time.Duration
	CartCacheTTL           time.Duration

	// Cleanup Intervals
	CleanupInterval         time.Duration
	SessionStateTTL         time.Duration
	CleanupVerboseReporting bool
	MaxSessionsPerStore     int
	NoticeStreamBuffer      int

	// SysOp surface
	SysopPassword string
	JWTSecret     string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Commerce backend
	GraphQLEndpoint = getEnvString("GRAPHQL_ENDPOINT", "http://localhost:8787/graphql")
	BackendRequestTimeout = getEnvDuration("BACKEND_REQUEST_TIMEOUT", 10*time.Second)
	StorefrontDomainSuffix = getEnvString("STOREFRONT_DOMAIN_SUFFIX", "huzilerz.shop")

	// Session lifetimes
	GuestSessionTTL = time.Duration(getEnvInt("GUEST_SESSION_TTL_DAYS", 7)) * 24 * time.Hour
	CustomerSessionTTL = time.Duration(getEnvInt("CUSTOMER_SESSION_TTL_HOURS", 24)) * time.Hour

	// Session storage
	SessionDBPath = getEnvString("SESSION_DB_PATH", "db/sessions.db")
	SessionDBURL = getEnvString("SESSION_DB_URL", "")
	SessionDBAuth = getEnvString("SESSION_DB_AUTH_TOKEN", "")

	// Database Pool
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Cart coordinator
	QuantityDebounceWindow = getEnvDuration("QUANTITY_DEBOUNCE_WINDOW", 300*time.Millisecond)
	CartCacheTTL = time.Duration(getEnvInt("CART_CACHE_TTL_HOURS", 24)) * time.Hour

	// Cleanup Intervals
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
	SessionStateTTL = time.Duration(getEnvInt("SESSION_STATE_TTL_HOURS", 168)) * time.Hour
	CleanupVerboseReporting = getEnvBool("CLEANUP_VERBOSE_REPORTING", true)
	MaxSessionsPerStore = getEnvInt("MAX_SESSIONS_PER_STORE", 5000)
	NoticeStreamBuffer = getEnvInt("NOTICE_STREAM_BUFFER", 10)

	// SysOp surface
	SysopPassword = getEnvString("SYSOP_PASSWORD", "")
	JWTSecret = getEnvString("JWT_SECRET", "")
}
