package configuration

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type MongoConfig struct {
	Uri      string `json:"uri"`
	Database string `json:"database"`
}

type ServerConfig struct {
	AppPort        int      `json:"app_port"`
	SocketPort     int      `json:"socket_port"`
	AllowedOrigins []string `json:"allowed_origins"`
}

type Config struct {
	Mongo  MongoConfig  `json:"mongo"`
	Server ServerConfig `json:"server"`
}

// LoadConfig reads the JSON config file, then applies environment
// overrides (a .env file is honored when present).
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	if v := os.Getenv("PARLEY_MONGO_URI"); v != "" {
		config.Mongo.Uri = v
	}
	if v := os.Getenv("PARLEY_MONGO_DATABASE"); v != "" {
		config.Mongo.Database = v
	}
	if v := os.Getenv("PARLEY_APP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.AppPort = port
		}
	}
	if v := os.Getenv("PARLEY_SOCKET_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.SocketPort = port
		}
	}

	if config.Server.AppPort == 0 {
		config.Server.AppPort = 8080
	}
	if config.Server.SocketPort == 0 {
		config.Server.SocketPort = 8081
	}

	return &config, nil
}
