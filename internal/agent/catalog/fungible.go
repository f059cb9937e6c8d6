package catalog

import (
	"context"
	"net/url"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const fungibleBasePath = "/api/v1/ft"

var fungibleChainIDs = []any{
	1, 137, 43114, 56, 101, 59144, 8453, 42161, 10, 1101, 5000, 534352, 324,
	1442, 5001, 534353, 280, 84531, 421613, 11155420, 59140,
}

const fungibleSystemPrompt = `You are an NFT Fungible Token Metrics Assistant. You help users get information about fungible tokens using two main tools:

1. get_historical_price - Use this when users ask for historical price data, price history, past prices, or historical performance of tokens. This provides day-wise historical price data.

2. get_price_estimate - Use this when users ask for price predictions, estimates, future price forecasts, or price estimates for tokens. This provides price estimation from Daily Model and Forecast Model.

IMPORTANT:
- If users ask for "historical", "past", "history", "previous", "last week", "last month" → use get_historical_price
- If users ask for "estimate", "prediction", "forecast", "future", "price estimate" → use get_price_estimate

CRITICAL: When users mention chain names, you MUST convert them to chain IDs:
- "ethereum" → use chain_id: 1
- "polygon" → use chain_id: 137
- "avalanche" → use chain_id: 43114
- "binance" → use chain_id: 56
- "solana" → use chain_id: 101
- "linea" → use chain_id: 59144
- "base" → use chain_id: 8453
- "arbitrum" → use chain_id: 42161
- "optimism" → use chain_id: 10

NEVER use chain names in the API calls, ONLY use the numeric chain_id values.

Supported currencies: usdc (default), eth, dai
Supported time ranges: 24h (default), 7d, 30d, 90d

When users ask questions, determine which tool(s) to use and call them appropriately. Provide clear, helpful responses based on the data returned.`

// Fungible 装配同质化代币分析智能体。
func Fungible(api *collab.Client) agent.Config {
	registry := tool.NewRegistry()

	registry.MustRegister(tool.Definition{
		Name:        "get_historical_price",
		Description: "Get day-wise historical price data for a fungible token.",
		Params: []tool.Param{
			{Name: "chain_id", Type: "integer", Description: "Chain ID for the blockchain", Required: true, Enum: fungibleChainIDs},
			{Name: "token_address", Type: "string", Description: "Address of the token", Required: true},
			{Name: "currency", Type: "string", Description: "Currency to quote prices in", Default: "usdc", Enum: []any{"usdc", "eth", "dai"}},
			{Name: "time_range", Type: "string", Description: "Time range for the history", Default: "24h", Enum: []any{"24h", "7d", "30d", "90d"}},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		chainID, err := requireArg(args, "chain_id")
		if err != nil {
			return nil, err
		}
		token, err := requireArg(args, "token_address")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		setParam(query, args, "currency")
		setParam(query, args, "time_range")
		path := fungibleBasePath + "/" + url.PathEscape(chainID) + "/" + url.PathEscape(token) + "/price/historical"
		return api.Get(ctx, path, query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_price_estimate",
		Description: "Get price estimation for a fungible token from the Daily Model and Forecast Model.",
		Params: []tool.Param{
			{Name: "chain_id", Type: "integer", Description: "Chain ID for the blockchain", Required: true, Enum: fungibleChainIDs},
			{Name: "token_address", Type: "string", Description: "Address of the token", Required: true},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		chainID, err := requireArg(args, "chain_id")
		if err != nil {
			return nil, err
		}
		token, err := requireArg(args, "token_address")
		if err != nil {
			return nil, err
		}
		path := fungibleBasePath + "/" + url.PathEscape(chainID) + "/" + url.PathEscape(token) + "/price-estimate"
		return api.Get(ctx, path, nil)
	})

	return agent.Config{
		ID:          "fungible",
		Name:        "NFT Fungible Token Agent",
		Description: "Handles fungible tokens, ERC-20 tokens, historical prices, price estimates, token prices.",
		Keywords: []string{
			"fungible", "token", "tokens", "erc-20", "erc20", "historical", "history",
			"price history", "token price", "usdc", "eth", "dai",
		},
		SystemPrompt: fungibleSystemPrompt,
		Registry:     registry,
	}
}
