package main

import (
	approuters "Parley/internal/app_routers"
	"Parley/internal/configuration"
	"flag"
	"log"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "./config.json", "config file path")
	flag.Parse()

	container, err := configuration.BuildContainer(configPath)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	// Ensure cleanup on shutdown
	defer container.Close()

	approuters.StartServer(container)
}
