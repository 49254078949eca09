package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/zordon-wallet/zordon/internal/core/domain"
)

var chainsCommand = cli.Command{
	Name:   "chains",
	Usage:  "list the supported bridge chains and assets",
	Action: chainsAction,
}

var quoteCommand = cli.Command{
	Name:  "quote",
	Usage: "fetch a policy-checked quote for a cross-chain transfer",
	Flags: []cli.Flag{
		directionFlag, sourceChainFlag, sourceAssetFlag,
		destChainFlag, destAssetFlag, amountFlag,
	},
	Action: quoteAction,
}

var swapCommand = cli.Command{
	Name:  "swap",
	Usage: "quote, submit and track a cross-chain transfer end to end",
	Flags: []cli.Flag{
		directionFlag, sourceChainFlag, sourceAssetFlag,
		destChainFlag, destAssetFlag, amountFlag, destinationFlag,
	},
	Action: swapAction,
}

var priceCommand = cli.Command{
	Name:   "price",
	Usage:  "show the current ZEC/USD rate",
	Action: priceAction,
}

func chainsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer cfg.SchedulerService().Stop()

	for _, chain := range cfg.RoutingClient().AvailableChains() {
		fmt.Printf("%-6s %-6s %s\n", chain.Id, chain.Symbol, chain.Name)
	}
	return nil
}

func quoteAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer cfg.SchedulerService().Stop()

	quote, err := cfg.QuoteEngine().GetAcceptedQuote(
		ctx.Context,
		quoteRequestFromFlags(ctx),
		domain.Policy{MaxSlippageBps: cfg.MaxSlippageBps},
	)
	if err != nil {
		return err
	}

	return printJSON(quote)
}

func swapAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer cfg.SchedulerService().Stop()

	result, err := cfg.Orchestrator().Execute(
		ctx.Context,
		quoteRequestFromFlags(ctx),
		domain.Policy{MaxSlippageBps: cfg.MaxSlippageBps},
		ctx.String(destinationFlagName),
		func(status domain.IntentStatus) {
			fmt.Printf("status: %s\n", status.State)
		},
	)
	if err != nil {
		return err
	}

	return printJSON(result)
}

func priceAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer cfg.SchedulerService().Stop()

	rate, err := cfg.PricingService().RateUSD(ctx.Context)
	if err != nil {
		return err
	}

	fmt.Printf("1 ZEC = %s USD\n", rate.StringFixed(2))
	return nil
}

func quoteRequestFromFlags(ctx *cli.Context) domain.QuoteRequest {
	return domain.QuoteRequest{
		Direction:   domain.IntentDirection(ctx.String(directionFlagName)),
		SourceChain: ctx.String(sourceChainFlagName),
		SourceAsset: ctx.String(sourceAssetFlagName),
		DestChain:   ctx.String(destChainFlagName),
		DestAsset:   ctx.String(destAssetFlagName),
		Amount:      ctx.String(amountFlagName),
	}
}

func printJSON(v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}
