package catalog

import (
	"context"
	"net/url"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const priceBasePath = "/api/v1/nft"

var priceChainIDs = []any{1, 137, 43114, 56, 101, 59144}

const priceSystemPrompt = `You are an NFT Price Estimation Assistant. You help users get NFT price estimates and valuations using three main tools:

1. get_price_estimate - Use this when users ask for the estimated price or valuation of an NFT collection. Requires the chain_id and the collection contract address.

2. get_token_price_estimate - Use this when users ask for the estimated price of a single NFT, identified by its token id within a collection.

3. get_supported_collections - Use this when users ask which collections support price estimation, or ask for collection metadata.

IMPORTANT:
- If users ask about the value of a whole collection → use get_price_estimate
- If users mention a specific token id → use get_token_price_estimate
- If users ask for "collection metadata" or "supported collections" → use get_supported_collections

CRITICAL: When users mention chain names, you MUST convert them to chain IDs:
- "ethereum" → use chain_id: 1
- "polygon" → use chain_id: 137
- "avalanche" → use chain_id: 43114
- "binance" → use chain_id: 56
- "solana" → use chain_id: 101
- "linea" → use chain_id: 59144

When users ask questions, determine which tool(s) to use and call them appropriately. Provide clear, helpful responses based on the data returned.`

// Price 装配价格估值智能体。
func Price(api *collab.Client) agent.Config {
	registry := tool.NewRegistry()

	registry.MustRegister(tool.Definition{
		Name:        "get_price_estimate",
		Description: "Get the estimated price for an NFT collection by contract address.",
		Params: []tool.Param{
			{Name: "chain_id", Type: "integer", Description: "Chain ID for the blockchain", Required: true, Enum: priceChainIDs},
			{Name: "contract_address", Type: "string", Description: "Contract address of the collection", Required: true},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		chainID, err := requireArg(args, "chain_id")
		if err != nil {
			return nil, err
		}
		contract, err := requireArg(args, "contract_address")
		if err != nil {
			return nil, err
		}
		path := priceBasePath + "/" + url.PathEscape(chainID) + "/" + url.PathEscape(contract) + "/price-estimate"
		return api.Get(ctx, path, nil)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_token_price_estimate",
		Description: "Get the estimated price for a single NFT identified by its token id.",
		Params: []tool.Param{
			{Name: "chain_id", Type: "integer", Description: "Chain ID for the blockchain", Required: true, Enum: priceChainIDs},
			{Name: "contract_address", Type: "string", Description: "Contract address of the collection", Required: true},
			{Name: "token_id", Type: "string", Description: "Token id within the collection", Required: true},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		chainID, err := requireArg(args, "chain_id")
		if err != nil {
			return nil, err
		}
		contract, err := requireArg(args, "contract_address")
		if err != nil {
			return nil, err
		}
		tokenID, err := requireArg(args, "token_id")
		if err != nil {
			return nil, err
		}
		path := priceBasePath + "/" + url.PathEscape(chainID) + "/" + url.PathEscape(contract) +
			"/" + url.PathEscape(tokenID) + "/price-estimate"
		return api.Get(ctx, path, nil)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_supported_collections",
		Description: "List the collections with price estimation support, including collection metadata.",
		Params: []tool.Param{
			{Name: "chain_id", Type: "integer", Description: "Chain ID for the blockchain", Default: 1, Enum: priceChainIDs},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		query := url.Values{}
		setParam(query, args, "chain_id")
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, priceBasePath+"/price_estimate/supported_collections", query)
	})

	return agent.Config{
		ID:          "price_estimation",
		Name:        "NFT Price Estimation Agent",
		Description: "Handles price predictions, price estimates, NFT valuations, collection pricing, token pricing.",
		Keywords: []string{
			"price", "pricing", "estimate", "prediction", "valuation", "cost", "worth",
			"value", "metadata", "collections",
		},
		SystemPrompt: priceSystemPrompt,
		Registry:     registry,
	}
}
