package config

import (
	"net"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Host string
	Port string
}

// Load reads HOST/PORT from the environment, with an optional .env file.
// Defaults match the reference setup: loopback on port 3000.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Host: "127.0.0.1",
		Port: "3000",
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	return cfg
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
