package main

import (
	"context"
	"log"
	"os"

	"github.com/dbelyaev/askpdf/internal/buildinfo"
	"github.com/dbelyaev/askpdf/internal/client/cli"
	"github.com/dbelyaev/askpdf/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
