package catalog

import (
	"context"
	"net/url"
	"strings"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const gamingBasePath = "/api/v2/nft/gaming"

var gamingBlockchains = []any{
	"avalanche", "base", "binance", "bitcoin", "berachain",
	"ethereum", "linea", "polygon", "solana", "unichain",
}

const gamingSystemPrompt = `You are an NFT Gaming Metrics Assistant. You help users get information about NFT gaming metrics using three main tools:

1. get_game_contracts_info - Use this ONLY when users ask for general information about game contracts, lists of games, or overview data. This is for broad queries like "show me game contracts" or "list games".

2. get_nft_gaming_metrics_by_contract - Use this when users provide a specific contract address (starts with 0x). This gets detailed metrics for a specific contract.

3. get_nft_gaming_metrics_by_game - Use this when users mention a specific game name (like "yeti frens", "axie infinity", "cryptokitties", etc.). This gets metrics for a specific game.

IMPORTANT: When users ask about a specific game by name, ALWAYS use get_nft_gaming_metrics_by_game, NOT get_game_contracts_info.

You can work with these blockchains: avalanche, base, binance, bitcoin, berachain, ethereum, linea, polygon, solana, unichain.

When users ask questions, determine which tool(s) to use and call them appropriately. Provide clear, helpful responses based on the data returned.`

// Gaming 装配链游分析智能体。
func Gaming(api *collab.Client) agent.Config {
	registry := tool.NewRegistry()

	registry.MustRegister(tool.Definition{
		Name:        "get_game_contracts_info",
		Description: "Get detailed information on game contracts, including collection categories and metric value changes. Use this for general overviews and lists of games.",
		Params: []tool.Param{
			{Name: "blockchain", Type: "string", Description: "Filter results to a single blockchain", Enum: gamingBlockchains},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		query := url.Values{}
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		query.Set("sort_by", "game")
		query.Set("sort_order", "desc")
		setParam(query, args, "blockchain")
		return api.Get(ctx, gamingBasePath+"/metrics", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_nft_gaming_metrics_by_contract",
		Description: "Get gaming metrics for a specific contract address (starts with 0x).",
		Params: []tool.Param{
			{Name: "blockchain", Type: "string", Description: "Blockchain the contract lives on", Default: "ethereum", Enum: gamingBlockchains},
			{Name: "contract_address", Type: "string", Description: "Contract address of the game collection", Required: true},
			{Name: "time_range", Type: "string", Description: "Time range for metrics (e.g., 24h, 7d, 30d)", Default: "24h"},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		contract, err := requireArg(args, "contract_address")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		setParam(query, args, "blockchain")
		query.Set("contract_address", contract)
		setParam(query, args, "time_range")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		query.Set("sort_by", "total_users")
		query.Set("sort_order", "desc")
		return api.Get(ctx, gamingBasePath+"/contract/metrics", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_nft_gaming_metrics_by_game",
		Description: "Get gaming metrics for a specific game by its name.",
		Params: []tool.Param{
			{Name: "blockchain", Type: "string", Description: "Blockchain the game runs on", Default: "ethereum", Enum: gamingBlockchains},
			{Name: "game", Type: "string", Description: "Name of the game", Required: true},
			{Name: "time_range", Type: "string", Description: "Time range for metrics (e.g., 24h, 7d, 30d)", Default: "24h"},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		game, err := requireArg(args, "game")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		setParam(query, args, "blockchain")
		// 接口按小写游戏名索引。
		query.Set("game", strings.ToLower(game))
		setParam(query, args, "time_range")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		query.Set("sort_by", "total_users")
		query.Set("sort_order", "desc")
		return api.Get(ctx, gamingBasePath+"/collection/metrics", query)
	})

	return agent.Config{
		ID:          "gaming",
		Name:        "NFT Gaming Agent",
		Description: "Handles gaming metrics, game contracts, player activity, gaming performance, gaming collections.",
		Keywords: []string{
			"game", "gaming", "player", "contract", "metrics", "activity", "performance",
		},
		SystemPrompt: gamingSystemPrompt,
		Registry:     registry,
	}
}
