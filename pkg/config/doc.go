// Package config loads typed configuration from environment variables.
//
// Load parses any struct annotated with github.com/caarlos0/env/v11 tags and
// reads a .env file through github.com/joho/godotenv on first use. Parsed values
// are cached per type for the lifetime of the process.
//
//	type AppConfig struct {
//		Env     string `env:"APP_ENV" envDefault:"development"`
//		Session mssession.Config
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// Nested structs are parsed recursively, so every package's Config can be
// embedded in one application struct.
package config
