package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	WebPort        int    `mapstructure:"web_port"`
	Reload         bool   `mapstructure:"reload"`
	DBHost         string `mapstructure:"db_host"`
	DBPort         int    `mapstructure:"db_port"`
	DBUser         string `mapstructure:"db_user"`
	DBPassword     string `mapstructure:"db_password"`
	DBName         string `mapstructure:"db_name"`
	DBRootUser     string `mapstructure:"db_root_user"`
	DBRootPassword string `mapstructure:"db_root_password"`
}

// ListenAddr is the bind address of the REST service.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// WebListenAddr is the bind address of the web display service.
func (c Config) WebListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.WebPort))
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 5000)
	v.SetDefault("web_port", 5001)
	v.SetDefault("reload", true)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_user", "username")
	v.SetDefault("db_password", "password")
	v.SetDefault("db_name", "users_db")
	v.SetDefault("db_root_user", "root")
	v.SetDefault("db_root_password", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
