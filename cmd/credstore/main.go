package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/credstore/internal/cli"
	"github.com/dmitrijs2005/credstore/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
