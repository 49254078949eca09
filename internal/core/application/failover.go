package application

import "github.com/zordon-wallet/zordon/internal/core/domain"

// Known-good public lightwalletd endpoints used as mainnet fallbacks.
// Ordering is static: no latency-aware reordering, index 0 of the
// resolved candidate list is always the primary.
var mainnetFallbacks = []domain.Endpoint{
	{Host: "zec.rocks", Port: 443, Secure: true},
	{Host: "na.lightwalletd.com", Port: 443, Secure: true},
	{Host: "eu.lightwalletd.com", Port: 443, Secure: true},
}

// CandidateEndpoints resolves the ordered endpoint candidate list for a
// network. Testnet gets a single candidate; mainnet gets the primary
// followed by the public fallbacks, skipping a fallback that duplicates
// the primary.
func CandidateEndpoints(primary domain.Endpoint, network domain.Network) []domain.Endpoint {
	if network == domain.NetworkTestnet {
		return []domain.Endpoint{primary}
	}

	candidates := make([]domain.Endpoint, 0, len(mainnetFallbacks)+1)
	candidates = append(candidates, primary)
	for _, fallback := range mainnetFallbacks {
		if fallback.Host == primary.Host && fallback.Port == primary.Port {
			continue
		}
		candidates = append(candidates, fallback)
	}
	return candidates
}

// NextEndpoint returns the index of the next fallback candidate, or
// false when all candidates are exhausted.
func NextEndpoint(current, total int) (int, bool) {
	next := current + 1
	if next >= total {
		return 0, false
	}
	return next, true
}
