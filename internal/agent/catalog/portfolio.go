package catalog

import (
	"context"
	"net/url"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const portfolioBasePath = "/api/v2/wallet"

var portfolioBlockchains = []any{
	"atleta_olympia", "avalanche", "base", "berachain", "binance", "bitcoin",
	"ethereum", "linea", "monad_testnet", "polygon", "polyhedra_testnet", "root",
	"solana", "somnia_testnet", "soneium", "unichain", "unichain_sepolia",
}

var portfolioTimeRanges = []any{"1d", "7d", "30d", "90d", "1y", "all"}

const portfolioSystemPrompt = `You are a Portfolio Analysis Agent that specializes in comprehensive wallet analysis. You have access to multiple tools to analyze different aspects of wallets and portfolios:

**Available Tools:**
1. **DeFi Portfolio** - Analyze a wallet's DeFi holdings, token balances, and blockchain details
2. **NFT Portfolio** - Analyze a wallet's NFT holdings, collection details, and token IDs
3. **ERC20 Portfolio** - Analyze ERC-20 token holdings and blockchain information
4. **Wallet Label** - Get wallet classification, risk factors, and activity type
5. **Wallet Score** - Get wallet activity assessment, interaction patterns, and risk scores
6. **Wallet Metrics** - Get transactional activity, volume, inflow/outflow data, and wallet age

**Tool Selection Guidelines:**
- If the query mentions "DeFi", "defi portfolio", "DeFi holdings" → use get_defi_portfolio
- If the query mentions "NFT", "NFT holdings", "NFT portfolio", "collections" → use get_nft_portfolio
- If the query mentions "ERC20", "tokens", "token holdings", "fungible tokens" → use get_erc20_portfolio
- If the query mentions "wallet label", "classification", "risk factors", "activity type" → use get_wallet_label
- If the query mentions "wallet score", "risk assessment", "interaction patterns" → use get_wallet_score
- If the query mentions "wallet metrics", "transactional activity", "volume", "inflow/outflow" → use get_wallet_metrics
- If the query mentions "portfolio", "comprehensive analysis", "wallet analysis" → use multiple tools as appropriate

**Time Range Options:** 1d, 7d, 30d, 90d, 1y, all (default: all)

Always extract wallet addresses and blockchain information from the user query. If no blockchain is specified, default to 'ethereum'.`

// Portfolio 装配组合分析智能体。
func Portfolio(api *collab.Client) agent.Config {
	registry := tool.NewRegistry()

	registry.MustRegister(tool.Definition{
		Name:        "get_defi_portfolio",
		Description: "Analyze a wallet's DeFi holdings, token balances, and blockchain details.",
		Params: []tool.Param{
			{Name: "address", Type: "string", Description: "Wallet address to analyze", Required: true},
			{Name: "blockchain", Type: "string", Description: "Blockchain of the wallet", Required: true, Enum: portfolioBlockchains},
			{Name: "time_range", Type: "string", Description: "Time range for the holdings", Default: "all", Enum: portfolioTimeRanges},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		address, err := requireArg(args, "address")
		if err != nil {
			return nil, err
		}
		blockchain, err := requireArg(args, "blockchain")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("address", address)
		query.Set("blockchain", blockchain)
		setParam(query, args, "time_range")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, portfolioBasePath+"/balance/defi", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_nft_portfolio",
		Description: "Analyze a wallet's NFT holdings, collection details, and token ids.",
		Params: []tool.Param{
			{Name: "wallet", Type: "string", Description: "Wallet address to analyze", Required: true},
			{Name: "blockchain", Type: "string", Description: "Blockchain of the wallet", Required: true, Enum: portfolioBlockchains},
			{Name: "time_range", Type: "string", Description: "Time range for the holdings", Default: "all", Enum: portfolioTimeRanges},
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
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, portfolioBasePath+"/balance/nft", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_erc20_portfolio",
		Description: "Analyze a wallet's ERC-20 token holdings and blockchain information.",
		Params: []tool.Param{
			{Name: "address", Type: "string", Description: "Wallet address to analyze", Required: true},
			{Name: "blockchain", Type: "string", Description: "Blockchain of the wallet", Required: true, Enum: portfolioBlockchains},
			{Name: "time_range", Type: "string", Description: "Time range for the holdings", Default: "all", Enum: portfolioTimeRanges},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		address, err := requireArg(args, "address")
		if err != nil {
			return nil, err
		}
		blockchain, err := requireArg(args, "blockchain")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("address", address)
		query.Set("blockchain", blockchain)
		setParam(query, args, "time_range")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, portfolioBasePath+"/balance/token", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_wallet_label",
		Description: "Get wallet classification, risk factors, and activity type.",
		Params: []tool.Param{
			{Name: "address", Type: "string", Description: "Wallet address to classify", Required: true},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		address, err := requireArg(args, "address")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("address", address)
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, portfolioBasePath+"/label", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_wallet_score",
		Description: "Get wallet activity assessment, interaction patterns, and risk scores.",
		Params: []tool.Param{
			{Name: "time_range", Type: "string", Description: "Time range for the scores", Default: "all", Enum: portfolioTimeRanges},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		query := url.Values{}
		setParam(query, args, "time_range")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, portfolioBasePath+"/score", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_wallet_metrics",
		Description: "Get transactional activity, volume, inflow/outflow data, and wallet age.",
		Params: []tool.Param{
			{Name: "blockchain", Type: "string", Description: "Blockchain of the wallet", Required: true, Enum: []any{"ethereum", "avalanche", "linea", "polygon"}},
			{Name: "wallet", Type: "string", Description: "Wallet address to analyze", Required: true},
			{Name: "time_range", Type: "string", Description: "Time range for the metrics", Default: "all", Enum: portfolioTimeRanges},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		blockchain, err := requireArg(args, "blockchain")
		if err != nil {
			return nil, err
		}
		wallet, err := requireArg(args, "wallet")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("blockchain", blockchain)
		query.Set("wallet", wallet)
		setParam(query, args, "time_range")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, portfolioBasePath+"/metrics", query)
	})

	return agent.Config{
		ID:          "portfolio",
		Name:        "Portfolio Analysis Agent",
		Description: "Handles wallet portfolios, DeFi holdings, NFT holdings, ERC20 tokens, wallet labels, wallet scores, wallet metrics, comprehensive wallet analysis.",
		Keywords: []string{
			"portfolio", "defi holdings", "nft holdings", "erc20 tokens", "wallet labels",
			"wallet scores", "wallet metrics", "comprehensive analysis", "wallet analysis",
			"holdings", "balance",
		},
		SystemPrompt: portfolioSystemPrompt,
		Registry:     registry,
	}
}
