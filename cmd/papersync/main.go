package main

import (
	"context"
	"log"

	"github.com/dkarpov/papersync/internal/cli"
	"github.com/dkarpov/papersync/internal/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
