package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

type Config struct {
	APIPort       string        `mapstructure:"api_port"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`

	DBDriver   string `mapstructure:"db_driver"`
	DBDSN      string `mapstructure:"db_dsn"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSslMode  string `mapstructure:"db_sslmode"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	SeedAdminUsername string `mapstructure:"seed_admin_username"`
	SeedAdminPassword string `mapstructure:"seed_admin_password"`

	LogLevel        string `mapstructure:"log_level"`
	DefaultLanguage string `mapstructure:"default_language"`
}

var AppConfig *Config

// defaults target a local postgres and seed the
// admin/admin123 account.
var defaults = map[string]any{
	"api_port":            "8080",
	"jwt_secret":          "defaultsecret",
	"jwt_expiration":      "72h",
	"cookie_secure":       false,
	"db_driver":           DriverPostgres,
	"db_dsn":              "",
	"db_host":             "localhost",
	"db_port":             "5432",
	"db_user":             "admin",
	"db_password":         "admin",
	"db_name":             "car_rent",
	"db_sslmode":          "disable",
	"redis_addr":          "localhost:6379",
	"redis_password":      "",
	"redis_db":            0,
	"seed_admin_username": "admin",
	"seed_admin_password": "admin123",
	"log_level":           "info",
	"default_language":    "en",
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"port":      "api_port",
	"db-driver": "db_driver",
	"db-dsn":    "db_dsn",
	"log-level": "log_level",
}

// Load resolves the configuration from (highest first) changed flags,
// environment variables (a .env file is loaded into the environment first),
// an optional carrental.yaml file and the built-in defaults. configFile may
// be empty.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("carrental")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("unsupported db_driver %q (want postgres, sqlite or mysql)", c.DBDriver)
	}
	if c.DBDriver != DriverPostgres && c.DBDSN == "" {
		return fmt.Errorf("db_dsn is required for driver %s", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret must not be empty")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("jwt_expiration must be positive")
	}
	return nil
}

// DSN returns the data source name for the configured driver. For postgres
// an explicit db_dsn wins over the individual connection settings.
func (c *Config) DSN() string {
	if c.DBDSN != "" || c.DBDriver != DriverPostgres {
		return c.DBDSN
	}
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSslMode
}

// String masks secrets.
func (c *Config) String() string {
	return fmt.Sprintf("Config{port: %s, db: %s, redis: %s, lang: %s, jwt: *** (masked) ***}",
		c.APIPort, c.DBDriver, c.RedisAddr, c.DefaultLanguage)
}
