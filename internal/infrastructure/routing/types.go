package routing

type quoteResponse struct {
	QuoteId     string             `json:"quote_id"`
	AmountOut   string             `json:"amount_out"`
	SlippageBps int                `json:"slippage_bps"`
	Legs        []routeLegResponse `json:"legs"`
}

type routeLegResponse struct {
	Kind string `json:"kind"`
	Fee  string `json:"fee"`
}

type submitIntentRequest struct {
	QuoteId     string `json:"quote_id"`
	Destination string `json:"destination"`
}

type submitIntentResponse struct {
	IntentId string `json:"intent_id"`
}

type intentStatusResponse struct {
	State string   `json:"state"`
	Txids []string `json:"txids"`
}
