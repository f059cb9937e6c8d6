package catalog

import (
	"context"
	"net/url"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const defiBasePath = "/api/v1/defi/pool"

var defiProtocols = []any{
	"uniswap", "sushiswap", "pancakeswap", "curve", "balancer", "aave", "compound",
	"yearn", "makerdao", "dydx", "1inch", "paraswap", "0x", "kyber", "bancor",
	"dodo", "perpetual",
}

const defiSystemPrompt = `You are an NFT DeFi Metrics Assistant. You help users get information about DeFi pools and protocols using three main tools:

1. get_dex_pool_metadata - Use this when users provide a specific pair address and want to know details about that DEX pool.

2. get_dex_pool_metrics - Use this when users provide a pair address and want to know performance metrics, trading volume, liquidity, or other metrics for that pool.

3. get_dex_pools_by_protocol - Use this when users ask about pools in a specific protocol (like Uniswap, Sushiswap, PancakeSwap, etc.) or want to see all pools in a protocol.

IMPORTANT:
- If users provide a pair address and ask for "details" or "metadata" → use get_dex_pool_metadata
- If users provide a pair address and ask for "metrics", "performance", "volume", "liquidity" → use get_dex_pool_metrics
- If users mention a protocol name (Uniswap, Sushiswap, etc.) → use get_dex_pools_by_protocol

Supported protocols include: uniswap, sushiswap, pancakeswap, curve, balancer, aave, compound, yearn, makerdao, dydx, 1inch, paraswap, 0x, kyber, bancor, dodo, perpetual

When users ask questions, determine which tool(s) to use and call them appropriately. Provide clear, helpful responses based on the data returned.`

// DeFi 装配 DeFi 池分析智能体。
func DeFi(api *collab.Client) agent.Config {
	registry := tool.NewRegistry()

	registry.MustRegister(tool.Definition{
		Name:        "get_dex_pool_metadata",
		Description: "Get metadata for a DEX pool by its pair address.",
		Params: []tool.Param{
			{Name: "pair_address", Type: "string", Description: "Pair address of the DEX pool", Required: true},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		pair, err := requireArg(args, "pair_address")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("pair_address", pair)
		return api.Get(ctx, defiBasePath+"/metadata", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_dex_pool_metrics",
		Description: "Get performance metrics for a DEX pool by its pair address.",
		Params: []tool.Param{
			{Name: "pair_address", Type: "string", Description: "Pair address of the DEX pool", Required: true},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		pair, err := requireArg(args, "pair_address")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("pair_address", pair)
		return api.Get(ctx, defiBasePath+"/metrics", query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_dex_pools_by_protocol",
		Description: "List DEX pools belonging to a protocol.",
		Params: []tool.Param{
			{Name: "protocol", Type: "string", Description: "Protocol to list pools for", Required: true, Enum: defiProtocols},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		protocol, err := requireArg(args, "protocol")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("protocol", protocol)
		return api.Get(ctx, defiBasePath, query)
	})

	return agent.Config{
		ID:          "defi",
		Name:        "NFT DeFi Agent",
		Description: "Handles DeFi pools, DEX protocols, pair addresses, Uniswap, Sushiswap, PancakeSwap, etc.",
		Keywords: []string{
			"defi", "dex", "pool", "pools", "protocol", "protocols", "pair", "address",
			"uniswap", "sushiswap", "pancakeswap", "curve", "balancer", "aave", "compound",
		},
		SystemPrompt: defiSystemPrompt,
		Registry:     registry,
	}
}
