package domain

type IntentDirection string

const (
	DirectionInbound  IntentDirection = "inbound"
	DirectionOutbound IntentDirection = "outbound"
)

// QuoteRequest asks the routing service to price a cross-chain transfer.
type QuoteRequest struct {
	Direction   IntentDirection
	SourceChain string
	SourceAsset string
	DestChain   string
	DestAsset   string
	Amount      string
}

type RouteLeg struct {
	Kind string
	Fee  string
}

// QuoteResponse is a priced route proposal. The quote id acts as a
// capability token for submission; there is no expiry contract, callers
// must submit promptly.
type QuoteResponse struct {
	QuoteId     string
	AmountOut   string
	SlippageBps int
	Legs        []RouteLeg
}

type SubmitIntentRequest struct {
	QuoteId     string
	Destination string
}

type SubmitIntentResponse struct {
	IntentId string
}

// IntentStatus is the polled state of a submitted intent. State is a
// free-form string; the only canonical terminal value is "completed"
// (case-insensitive). Unrecognized states must be treated as pending.
type IntentStatus struct {
	State string
	Txids []string
}

// Policy is the acceptance policy applied to quotes before execution.
// Supplied per request, never persisted.
type Policy struct {
	MaxSlippageBps int
}

// ChainOption is one entry of the supported bridge/asset catalog. The
// catalog order is display order, not a ranking.
type ChainOption struct {
	Id     string
	Symbol string
	Name   string
	Icon   string
}
