package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Predictor PredictorConfig
	Session   SessionConfig
	History   HistoryConfig
	DB        DBConfig
	UI        UIConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PredictorConfig servicio externo de predicción de churn.
type PredictorConfig struct {
	BaseURL string        // se le añade /predict y /health
	Timeout time.Duration // 0 = sin timeout propio (el del transporte)
}

// SessionConfig sesiones de navegador (estado del formulario y último resultado).
type SessionConfig struct {
	TTL         time.Duration
	CookieName  string
	SweepPeriod time.Duration
}

// HistoryConfig historial opcional de predicciones en PostgreSQL.
type HistoryConfig struct {
	Enabled bool
}

// UIConfig opciones de presentación.
type UIConfig struct {
	Locale string // BCP 47, p. ej. "en", "es"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// Configured indica si hay datos suficientes para conectar.
func (c DBConfig) Configured() bool {
	return c.DatabaseURL != "" || c.Host != ""
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, PREDICTOR_BASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	return FromViper(v)
}

// FromViper construye la configuración a partir de una instancia de Viper ya preparada.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "churn-predictor"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		Predictor: PredictorConfig{
			BaseURL: strings.TrimRight(getString(v, "PREDICTOR_BASE_URL", "http://localhost:8000"), "/"),
			Timeout: time.Duration(getInt(v, "PREDICTOR_TIMEOUT", 0)) * time.Second,
		},
		Session: SessionConfig{
			TTL:         time.Duration(getInt(v, "SESSION_TTL_MINUTES", 30)) * time.Minute,
			CookieName:  getString(v, "SESSION_COOKIE", "churn_session"),
			SweepPeriod: time.Minute,
		},
		History: HistoryConfig{
			Enabled: getBool(v, "HISTORY_ENABLED", false),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", ""),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "churn_predictor"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		UI: UIConfig{
			Locale: getString(v, "UI_LOCALE", "en"),
		},
	}

	if _, err := url.ParseRequestURI(cfg.Predictor.BaseURL); err != nil {
		return nil, fmt.Errorf("PREDICTOR_BASE_URL inválida: %w", err)
	}
	if cfg.Predictor.Timeout < 0 {
		return nil, fmt.Errorf("PREDICTOR_TIMEOUT no puede ser negativo")
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES debe ser mayor que cero")
	}
	if cfg.History.Enabled && !cfg.DB.Configured() {
		return nil, fmt.Errorf("HISTORY_ENABLED requiere DATABASE_URL o DB_HOST")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
