package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Network int

const (
	NetworkMainnet Network = iota
	NetworkTestnet
)

func (n Network) String() string {
	switch n {
	case NetworkTestnet:
		return "testnet"
	default:
		return "mainnet"
	}
}

func NetworkFromString(network string) Network {
	if strings.EqualFold(network, "testnet") {
		return NetworkTestnet
	}
	return NetworkMainnet
}

// ActivationHeight returns the first height at which shielded data exists on
// chain for the network. Wallet birthdays are floored to this value.
func (n Network) ActivationHeight() uint64 {
	switch n {
	case NetworkTestnet:
		return 280000
	default:
		return 419200
	}
}

// Endpoint identifies a chain-sync backend as a host/port/secure triple.
type Endpoint struct {
	Host   string
	Port   uint32
	Secure bool
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

func (e Endpoint) URL() string {
	scheme := "http"
	if e.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, e.Host, e.Port)
}

// EndpointFromURL parses an endpoint from its URL form. A missing port
// defaults to 443 for https and 9067 (the common lightwalletd port)
// otherwise.
func EndpointFromURL(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid endpoint url: %s", err)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("invalid endpoint url: missing host")
	}

	secure := u.Scheme == "https"
	port := uint64(9067)
	if secure {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.ParseUint(p, 10, 32)
		if err != nil {
			return Endpoint{}, fmt.Errorf("invalid endpoint port: %s", err)
		}
	}

	return Endpoint{Host: u.Hostname(), Port: uint32(port), Secure: secure}, nil
}
