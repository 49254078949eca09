package routing

import "github.com/zordon-wallet/zordon/internal/core/domain"

// supportedChains is the static bridge/asset catalog, in display order.
var supportedChains = []domain.ChainOption{
	{Id: "near", Symbol: "NEAR", Name: "NEAR Protocol", Icon: "near"},
	{Id: "zec", Symbol: "ZEC", Name: "Zcash", Icon: "zcash"},
	{Id: "eth", Symbol: "ETH", Name: "Ethereum", Icon: "ethereum"},
	{Id: "pol", Symbol: "POL", Name: "Polygon", Icon: "polygon"},
	{Id: "base", Symbol: "BASE", Name: "Base", Icon: "base"},
	{Id: "arb", Symbol: "ARB", Name: "Arbitrum", Icon: "arbitrum"},
}
