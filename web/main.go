package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/df07/go-raycast/pkg/config"
	"github.com/df07/go-raycast/pkg/logging"
	"github.com/df07/go-raycast/web/server"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Config file (default is $HOME/.raycast/config.yaml)")
	port := flag.Int("port", 0, "Port to serve on (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	webServer := server.NewServer(cfg, logger)

	logger.Info().Msg("Raycast Web Server")
	logger.Info().Msgf("API available at http://localhost:%d/api/", cfg.Server.Port)

	if err := webServer.Start(); err != nil {
		logger.Error().Err(err).Msg("Error starting server")
		os.Exit(1)
	}
}
