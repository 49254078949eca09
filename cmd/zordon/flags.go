package main

import "github.com/urfave/cli/v2"

const (
	directionFlagName   = "direction"
	sourceChainFlagName = "source-chain"
	sourceAssetFlagName = "source-asset"
	destChainFlagName   = "dest-chain"
	destAssetFlagName   = "dest-asset"
	amountFlagName      = "amount"
	destinationFlagName = "destination"
)

var (
	directionFlag = &cli.StringFlag{
		Name:  directionFlagName,
		Usage: "intent direction (inbound, outbound)",
		Value: "inbound",
	}
	sourceChainFlag = &cli.StringFlag{
		Name:     sourceChainFlagName,
		Usage:    "source chain id",
		Required: true,
	}
	sourceAssetFlag = &cli.StringFlag{
		Name:     sourceAssetFlagName,
		Usage:    "source asset symbol",
		Required: true,
	}
	destChainFlag = &cli.StringFlag{
		Name:     destChainFlagName,
		Usage:    "destination chain id",
		Required: true,
	}
	destAssetFlag = &cli.StringFlag{
		Name:     destAssetFlagName,
		Usage:    "destination asset symbol",
		Required: true,
	}
	amountFlag = &cli.StringFlag{
		Name:     amountFlagName,
		Usage:    "amount to transfer, in source asset units",
		Required: true,
	}
	destinationFlag = &cli.StringFlag{
		Name:     destinationFlagName,
		Usage:    "destination address on the target chain",
		Required: true,
	}
)
