package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Config es la configuración completa del backtester.
type Config struct {
	Backtest BacktestConfig `yaml:"backtest"`
	Data     DataConfig     `yaml:"data"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// BacktestConfig contiene los parámetros de la simulación.
type BacktestConfig struct {
	InitialCash         float64 `yaml:"initial_cash"`
	MonthlyDeposit      float64 `yaml:"monthly_deposit"`
	StartDate           string  `yaml:"start_date"` // YYYY-MM-DD
	EndDate             string  `yaml:"end_date"`   // YYYY-MM-DD
	RebalancePeriodDays int     `yaml:"rebalance_period_days"`
}

// DataConfig controla de dónde sale el histórico de precios.
type DataConfig struct {
	Dir        string `yaml:"dir"`          // directorio de datos CSV
	OKXBaseURL string `yaml:"okx_base_url"` // vacío = URL de producción
}

// StorageConfig controla dónde se persisten los runs.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Las variables de entorno sobreescriben las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Window parsea la ventana de simulación. Ambos extremos son obligatorios.
func (c *Config) Window() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.Backtest.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config.Window: start_date %q: %w", c.Backtest.StartDate, err)
	}
	end, err = time.Parse(dateLayout, c.Backtest.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("config.Window: end_date %q: %w", c.Backtest.EndDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("config.Window: end_date %s before start_date %s",
			c.Backtest.EndDate, c.Backtest.StartDate)
	}
	return start, end, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Backtest.MonthlyDeposit <= 0 {
		cfg.Backtest.MonthlyDeposit = 1000
	}
	if cfg.Backtest.RebalancePeriodDays <= 0 {
		cfg.Backtest.RebalancePeriodDays = 252
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "backtest.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
