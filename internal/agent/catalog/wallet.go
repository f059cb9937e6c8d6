package catalog

import (
	"context"
	"net/url"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const walletBasePath = "/api/v2/nft/wallet"

var walletBlockchains = []any{
	"avalanche", "base", "binance", "bitcoin", "ethereum", "linea", "polygon",
	"root", "solana", "soneium", "unichain", "unichain_sepolia",
}

var walletTimeRanges = []any{"24h", "7d", "30d", "90d", "all"}

const walletSystemPrompt = `You are an NFT Wallet Analytics Assistant. You help users get information about wallet analytics, scores, and profiles using three main tools:

1. get_wallet_analytics - Use this when users ask for wallet analytics, wallet performance, trading activity, wallet metrics, or wallet trends. This provides detailed analytics on value and trends.

2. get_wallet_scores - Use this when users ask for wallet scores, wallet ratings, portfolio scores, wallet performance scores, or wallet rankings. This provides detailed analytics on score values and trends.

3. get_wallet_profile - Use this when users ask for wallet profile, wallet details, NFT holdings, wallet insights, wallet information, or comprehensive wallet data. This provides comprehensive profiling information.

IMPORTANT:
- If users ask for "analytics", "performance", "trading", "metrics", "trends" → use get_wallet_analytics
- If users ask for "scores", "ratings", "rankings", "portfolio scores" → use get_wallet_scores
- If users ask for "profile", "details", "holdings", "insights", "information" → use get_wallet_profile

Supported blockchains: avalanche, base, binance, bitcoin, ethereum, linea, polygon, root, solana, soneium, unichain, unichain_sepolia

Supported time ranges: 24h, 7d, 30d, 90d, all
Supported sort options: volume, portfolio_value, transaction_count, unique_collections
Supported sort orders: asc, desc

When users ask questions, determine which tool(s) to use and call them appropriately. Provide clear, helpful responses based on the data returned.`

// Wallet 装配钱包分析智能体。
func Wallet(api *collab.Client) agent.Config {
	registry := tool.NewRegistry()

	registry.MustRegister(tool.Definition{
		Name:        "get_wallet_analytics",
		Description: "Get detailed wallet analytics on value and trends.",
		Params: []tool.Param{
			{Name: "wallet", Type: "string", Description: "Wallet address to analyze", Required: true},
			{Name: "blockchain", Type: "string", Description: "Blockchain of the wallet", Required: true, Enum: walletBlockchains},
			{Name: "time_range", Type: "string", Description: "Time range for the analytics", Default: "7d", Enum: walletTimeRanges},
			{Name: "sort_by", Type: "string", Description: "Field to sort results by", Default: "volume", Enum: []any{"volume", "portfolio_value", "transaction_count", "unique_collections"}},
			{Name: "sort_order", Type: "string", Description: "Sort direction", Default: "desc", Enum: []any{"asc", "desc"}},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		wallet, err := requireArg(args, "wallet")
		if err != nil {
			return nil, err
		}
		blockchain, err := requireArg(args, "blockchain")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("wallet", wallet)
		query.Set("blockchain", blockchain)
		setParam(query, args, "time_range")
		setParam(query, args, "sort_by")
		setParam(query, args, "sort_order")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, walletBasePath+"/analytics", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_wallet_scores",
		Description: "Get detailed wallet score values and trends.",
		Params: []tool.Param{
			{Name: "wallet", Type: "string", Description: "Wallet address to score", Required: true},
			{Name: "blockchain", Type: "string", Description: "Blockchain of the wallet", Required: true, Enum: walletBlockchains},
			{Name: "sort_by", Type: "string", Description: "Field to sort results by", Default: "portfolio_value"},
			{Name: "sort_order", Type: "string", Description: "Sort direction", Default: "desc", Enum: []any{"asc", "desc"}},
			{Name: "time_range", Type: "string", Description: "Time range for the scores", Default: "all", Enum: walletTimeRanges},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		wallet, err := requireArg(args, "wallet")
		if err != nil {
			return nil, err
		}
		blockchain, err := requireArg(args, "blockchain")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("wallet", wallet)
		query.Set("blockchain", blockchain)
		setParam(query, args, "sort_by")
		setParam(query, args, "sort_order")
		setParam(query, args, "time_range")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, walletBasePath+"/scores", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_wallet_profile",
		Description: "Get comprehensive profiling information for a wallet.",
		Params: []tool.Param{
			{Name: "wallet", Type: "string", Description: "Wallet address to profile", Required: true},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		wallet, err := requireArg(args, "wallet")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("wallet", wallet)
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, walletBasePath+"/profile", query)
	})

	return agent.Config{
		ID:          "wallet",
		Name:        "NFT Wallet Analytics Agent",
		Description: "Handles wallet analytics, wallet scores, wallet profiles, wallet performance, wallet ratings.",
		Keywords: []string{
			"wallet", "analytics", "scores", "profile", "performance", "rating", "ratings",
			"trading", "metrics", "trends",
		},
		SystemPrompt: walletSystemPrompt,
		Registry:     registry,
	}
}
