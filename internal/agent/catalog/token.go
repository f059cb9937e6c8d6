package catalog

import (
	"context"
	"net/url"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const tokenBasePath = "/api/v2/token"

var tokenBlockchains = []any{
	"avalanche", "ethereum", "base", "berachain", "linea", "polygon", "unichain",
}

const tokenSystemPrompt = `You are an NFT Token Analytics Assistant. You help users get information about token metrics, price predictions, and DEX prices using three main tools:

1. get_token_metrics - Use this when users ask for token metrics, token performance, token metadata, token insights, or token market data. This provides key metrics and metadata for a specified token.

2. get_token_price_prediction - Use this when users ask for price predictions, price forecasts, price estimates, future price movements, or volatility trends. This provides token price prediction with key market indicators.

3. get_token_dex_price - Use this when users ask for DEX prices, real-time pricing, current token price, market prices, or decentralized exchange prices. This provides the USD price of an ERC-20 token from DEXs.

IMPORTANT:
- If users ask for "metrics", "performance", "metadata", "insights", "market data" → use get_token_metrics
- If users ask for "prediction", "forecast", "estimate", "future", "volatility" → use get_token_price_prediction
- If users ask for "DEX price", "real-time", "current price", "market price", "decentralized" → use get_token_dex_price

Supported blockchains: avalanche, ethereum, base, berachain, linea, polygon, unichain
Supported time ranges: 24h, 7d, 30d, 90d, all

When users ask questions, determine which tool(s) to use and call them appropriately. Provide clear, helpful responses based on the data returned.`

// Token 装配代币分析智能体。
func Token(api *collab.Client) agent.Config {
	registry := tool.NewRegistry()

	registry.MustRegister(tool.Definition{
		Name:        "get_token_metrics",
		Description: "Get key metrics and metadata for a specified token.",
		Params: []tool.Param{
			{Name: "blockchain", Type: "string", Description: "Blockchain the token lives on", Required: true, Enum: tokenBlockchains},
			{Name: "token_address", Type: "string", Description: "Address of the token", Required: true},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		blockchain, err := requireArg(args, "blockchain")
		if err != nil {
			return nil, err
		}
		token, err := requireArg(args, "token_address")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("blockchain", blockchain)
		query.Set("token_address", token)
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, tokenBasePath+"/metrics", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_token_price_prediction",
		Description: "Get token price prediction with key market indicators.",
		Params: []tool.Param{
			{Name: "token_address", Type: "string", Description: "Address of the token", Required: true},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		token, err := requireArg(args, "token_address")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("token_address", token)
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, tokenBasePath+"/price_prediction", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_token_dex_price",
		Description: "Get the USD price of an ERC-20 token from decentralized exchanges.",
		Params: []tool.Param{
			{Name: "blockchain", Type: "string", Description: "Blockchain the token lives on", Required: true, Enum: tokenBlockchains},
			{Name: "token_address", Type: "string", Description: "Address of the token", Required: true},
			{Name: "time_range", Type: "string", Description: "Time range for the prices", Default: "all", Enum: []any{"24h", "7d", "30d", "90d", "all"}},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		blockchain, err := requireArg(args, "blockchain")
		if err != nil {
			return nil, err
		}
		token, err := requireArg(args, "token_address")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("blockchain", blockchain)
		query.Set("token_address", token)
		setParam(query, args, "time_range")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, tokenBasePath+"/dex_price", query)
	})

	return agent.Config{
		ID:          "token",
		Name:        "NFT Token Analytics Agent",
		Description: "Handles token metrics, token price predictions, DEX prices, token performance, token market data.",
		Keywords: []string{
			"token metrics", "token price predictions", "DEX prices", "token performance",
			"token market data", "price forecasts", "volatility trends",
		},
		SystemPrompt: tokenSystemPrompt,
		Registry:     registry,
	}
}
