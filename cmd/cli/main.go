package main

import (
	"context"
	"fmt"
	"log"

	"github.com/dsmirnova/taskcrew/internal/client/cli"
	"github.com/dsmirnova/taskcrew/internal/client/config"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

func main() {

	fmt.Printf("TaskCrew CLI %s (%s)\n", buildVersion, buildDate)

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
