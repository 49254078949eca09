package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/zordon-wallet/zordon/internal/config"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "Zordon"
	app.Usage = "non-custodial zcash wallet command line interface"
	app.Flags = config.Flags
	app.Commands = append(
		app.Commands,
		&chainsCommand,
		&quoteCommand,
		&swapCommand,
		&priceCommand,
	)

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %s", err)
	}
	log.SetLevel(log.Level(cfg.LogLevel))
	return cfg, nil
}
