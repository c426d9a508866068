package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// It is composed of smaller structs that represent different concerns of the
// system: server settings, Postgres connection details, the scanner universe,
// and backtest parameters.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=orbpulse
//	POSTGRES_SSLMODE=disable
//	SCANNER_TICKERS=NVDA,TSLA,AAPL
//	SCANNER_CACHE_TTL_SECONDS=60
//	BACKTEST_LOOKBACK_DAYS=60
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Scanner  ScannerConfig  // Live scan universe and pricing inputs
	Backtest BacktestConfig // Historical replay parameters
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// ScannerConfig defines the live scan universe and option pricing inputs.
//
// Fields:
//   - Tickers: symbols scanned each cycle, comma separated in the env var.
//   - MaxRows: cap on rows returned by a scan (default 20).
//   - CacheTTLSeconds: how long a scan result is served before rescanning.
//   - RiskFreeRate: annualized rate used for Greeks (default 0.05).
//   - DefaultIV: implied volatility fallback when no market IV is available.
type ScannerConfig struct {
	Tickers         []string
	MaxRows         int
	CacheTTLSeconds int
	RiskFreeRate    float64
	DefaultIV       float64
}

// BacktestConfig defines historical replay parameters.
//
// Fields:
//   - LookbackDays: calendar days of intraday history to replay (default 60).
//   - MinBarsPerDay: minimum 15m bars for a day to be simulated (default 10).
//   - ResultsDir: directory where CSV reports are written.
type BacktestConfig struct {
	LookbackDays  int
	MinBarsPerDay int
	ResultsDir    string
}

// defaultTickers is the scanned universe when SCANNER_TICKERS is unset:
// large-cap, liquid names with active 0-DTE or weekly option chains.
const defaultTickers = "NVDA,TSLA,AAPL,MSFT,AMZN,META,GOOGL,AMD,NFLX,AVGO," +
	"SMCI,COIN,MSTR,PLTR,SNOW,CRWD,PANW,SHOP,SQ,ROKU," +
	"SPY,QQQ,IWM,ARM,MU,INTC,BA"

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from a .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or out of range, validateConfig()
//     terminates the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "orbpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("SCANNER_TICKERS", defaultTickers)
	viper.SetDefault("SCANNER_MAX_ROWS", 20)
	viper.SetDefault("SCANNER_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("SCANNER_RISK_FREE_RATE", 0.05)
	viper.SetDefault("SCANNER_DEFAULT_IV", 0.35)

	viper.SetDefault("BACKTEST_LOOKBACK_DAYS", 60)
	viper.SetDefault("BACKTEST_MIN_BARS_PER_DAY", 10)
	viper.SetDefault("BACKTEST_RESULTS_DIR", "results")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Scanner: ScannerConfig{
			Tickers:         splitTickers(viper.GetString("SCANNER_TICKERS")),
			MaxRows:         viper.GetInt("SCANNER_MAX_ROWS"),
			CacheTTLSeconds: viper.GetInt("SCANNER_CACHE_TTL_SECONDS"),
			RiskFreeRate:    viper.GetFloat64("SCANNER_RISK_FREE_RATE"),
			DefaultIV:       viper.GetFloat64("SCANNER_DEFAULT_IV"),
		},
		Backtest: BacktestConfig{
			LookbackDays:  viper.GetInt("BACKTEST_LOOKBACK_DAYS"),
			MinBarsPerDay: viper.GetInt("BACKTEST_MIN_BARS_PER_DAY"),
			ResultsDir:    viper.GetString("BACKTEST_RESULTS_DIR"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// splitTickers parses a comma-separated ticker list, trimming whitespace and
// upper-casing symbols. Empty entries are dropped.
func splitTickers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym != "" {
			out = append(out, sym)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(AppConfig.Scanner.Tickers) == 0 {
		missing = append(missing, "SCANNER_TICKERS")
	}
	if AppConfig.Scanner.CacheTTLSeconds <= 0 {
		missing = append(missing, "SCANNER_CACHE_TTL_SECONDS")
	}
	if AppConfig.Backtest.LookbackDays <= 0 {
		missing = append(missing, "BACKTEST_LOOKBACK_DAYS")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
