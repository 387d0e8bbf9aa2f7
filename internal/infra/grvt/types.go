// Package grvt implements the exchange gateway against the GRVT REST and
// WebSocket APIs.
package grvt

import "fmt"

// Endpoints are the per-deployment service URLs.
type Endpoints struct {
	MarketData string
	TradeData  string
	Stream     string
}

// EndpointsFor resolves the deployment URLs for an environment name
// (TESTNET, PROD or DEV).
func EndpointsFor(environment string) (Endpoints, error) {
	switch environment {
	case "PROD":
		return Endpoints{
			MarketData: "https://market-data.grvt.io",
			TradeData:  "https://trades.grvt.io",
			Stream:     "wss://market-data.grvt.io/ws",
		}, nil
	case "TESTNET":
		return Endpoints{
			MarketData: "https://market-data.testnet.grvt.io",
			TradeData:  "https://trades.testnet.grvt.io",
			Stream:     "wss://market-data.testnet.grvt.io/ws",
		}, nil
	case "DEV":
		return Endpoints{
			MarketData: "https://market-data.dev.gravitymarkets.io",
			TradeData:  "https://trades.dev.gravitymarkets.io",
			Stream:     "wss://market-data.dev.gravitymarkets.io/ws",
		}, nil
	default:
		return Endpoints{}, fmt.Errorf("unknown environment %q", environment)
	}
}

// apiError is the error payload GRVT embeds in response envelopes.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type wireLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

type bookRequest struct {
	Instrument string `json:"instrument"`
	Depth      int    `json:"depth"`
}

type bookResponse struct {
	Result struct {
		Bids []wireLevel `json:"bids"`
		Asks []wireLevel `json:"asks"`
	} `json:"result"`
	Error *apiError `json:"error"`
}

type instrumentsResponse struct {
	Result []struct {
		Instrument string `json:"instrument"`
		TickSize   string `json:"tick_size"`
		MinSize    string `json:"min_size"`
		IsActive   bool   `json:"is_active"`
	} `json:"result"`
	Error *apiError `json:"error"`
}

type createOrderRequest struct {
	SubAccountID  string `json:"sub_account_id"`
	Instrument    string `json:"instrument"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Price         string `json:"price"`
	Size          string `json:"size"`
	PostOnly      bool   `json:"post_only"`
	ClientOrderID string `json:"client_order_id"`
}

type createOrderResponse struct {
	Result struct {
		OrderID string `json:"order_id"`
	} `json:"result"`
	Error *apiError `json:"error"`
}

type cancelAllRequest struct {
	SubAccountID string `json:"sub_account_id"`
	Instrument   string `json:"instrument"`
}

type cancelAllResponse struct {
	Error *apiError `json:"error"`
}

type fillHistoryRequest struct {
	SubAccountID string `json:"sub_account_id"`
	Instrument   string `json:"instrument"`
}

// fillRecord is the wire shape of one fill. Older endpoints report only
// size+price, newer ones include the cost; normalization flattens both.
type fillRecord struct {
	EventTimeMS int64  `json:"event_time"`
	Cost        string `json:"cost"`
	Size        string `json:"size"`
	Price       string `json:"price"`
	IsBuyer     bool   `json:"is_buyer"`
}

type fillHistoryResponse struct {
	Result []fillRecord `json:"result"`
	Error  *apiError    `json:"error"`
}

type accountSummaryRequest struct {
	SubAccountID string `json:"sub_account_id"`
}

type accountSummaryResponse struct {
	Error *apiError `json:"error"`
}
