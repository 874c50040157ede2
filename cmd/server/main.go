// Command blogd serves the blog API.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/gopherblog/internal/server"
	"github.com/dmitrijs2005/gopherblog/internal/server/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("blogd: %v", err)
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("blogd: %v", err)
	}

	app.Run(ctx)
}
