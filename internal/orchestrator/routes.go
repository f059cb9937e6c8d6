package orchestrator

import (
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const (
	opRouteBoth     = "route_to_both_agents"
	routeBothFirst  = "gaming"
	routeBothSecond = "price_estimation"
)

// route 把一个路由操作名映射到一个已装配的智能体。
type route struct {
	op      string
	agentID string
}

// routeAliases 处理操作名与智能体标识不一致的情况。
var routeAliases = map[string]string{
	"price_estimation": "price",
}

var routeDescriptions = map[string]string{
	"gaming":           "Route the query to the NFT Gaming Agent. Use this for queries about gaming metrics, game contracts, player activity, gaming performance, gaming collections, etc.",
	"price_estimation": "Route the query to the NFT Price Estimate Agent. Use this for queries about price predictions, price estimates, NFT valuations, collection pricing, token pricing, etc.",
	"brand":            "Route the query to the NFT Brand Agent. Use this for queries about brand NFTs, brand metrics, brand categories, specific brands like Starbucks, Nike, Adidas, etc.",
	"defi":             "Route the query to the NFT DeFi Agent. Use this for queries about DeFi pools, DEX protocols, pair addresses, Uniswap, Sushiswap, PancakeSwap, etc.",
	"fungible":         "Route the query to the NFT Fungible Token Agent. Use this for queries about fungible tokens, ERC-20 tokens, historical prices, price estimates, token prices, etc.",
	"wallet":           "Route the query to the NFT Wallet Analytics Agent. Use this for queries about wallet analytics, wallet scores, wallet profiles, wallet performance, wallet ratings, etc.",
	"token":            "Route the query to the NFT Token Analytics Agent. Use this for queries about token metrics, token price predictions, DEX prices, token performance, token market data, etc.",
	"portfolio":        "Route the query to the Portfolio Analysis Agent. Use this for queries about wallet portfolios, DeFi holdings, NFT holdings, ERC20 tokens, wallet labels, wallet scores, wallet metrics, comprehensive wallet analysis, etc.",
}

func buildRoutes(order []string) []route {
	routes := make([]route, 0, len(order))
	for _, id := range order {
		alias, ok := routeAliases[id]
		if !ok {
			alias = id
		}
		routes = append(routes, route{op: "route_to_" + alias + "_agent", agentID: id})
	}
	return routes
}

// routingDefinitions 渲染暴露给决策服务的路由操作列表。
// 除每个智能体的独立路由外，还包括 gaming+price 的组合路由。
func routingDefinitions(routes []route) []tool.Definition {
	defs := make([]tool.Definition, 0, len(routes)+1)
	for _, r := range routes {
		defs = append(defs, tool.Definition{
			Name:        r.op,
			Description: routeDescriptions[r.agentID],
			Params: []tool.Param{
				{Name: "query", Type: "string", Description: "The user's query to be processed by this agent", Required: true},
				{Name: "reason", Type: "string", Description: "Brief explanation of why this query should go to this agent", Required: true},
			},
		})
	}
	defs = append(defs, tool.Definition{
		Name:        opRouteBoth,
		Description: "Route the query to BOTH the gaming and price estimation agents. Use this when the query asks about both gaming data and pricing data. The gaming part runs to completion before the price part starts.",
		Params: []tool.Param{
			{Name: "gaming_query", Type: "string", Description: "The gaming-related part of the user's query", Required: true},
			{Name: "price_query", Type: "string", Description: "The pricing-related part of the user's query", Required: true},
			{Name: "reason", Type: "string", Description: "Brief explanation of why both agents are needed", Required: true},
		},
	})
	return defs
}

const routingSystemPrompt = `You are an NFT Query Orchestrator. You analyze user queries and route them to the appropriate specialized agent.

**Available Agents:**
1. **NFT Gaming Agent** - Handles gaming metrics, game contracts, player activity, gaming performance, gaming collections
2. **NFT Price Estimation Agent** - Handles price predictions, price estimates, NFT valuations, collection pricing, token pricing
3. **NFT Brand Agent** - Handles brand NFTs, brand metrics, brand categories, specific brands like Starbucks, Nike, Adidas, etc.
4. **NFT DeFi Agent** - Handles DeFi pools, DEX protocols, pair addresses, Uniswap, Sushiswap, PancakeSwap, etc.
5. **NFT Fungible Token Agent** - Handles fungible tokens, ERC-20 tokens, historical prices, price estimates, token prices
6. **NFT Wallet Analytics Agent** - Handles wallet analytics, wallet scores, wallet profiles, wallet performance, wallet ratings
7. **NFT Token Analytics Agent** - Handles token metrics, token price predictions, DEX prices, token performance, token market data
8. **Portfolio Analysis Agent** - Handles wallet portfolios, DeFi holdings, NFT holdings, ERC20 tokens, wallet labels, wallet scores, wallet metrics, comprehensive wallet analysis

**Routing Rules:**
- If the query mentions gaming, games, players, gaming metrics, game contracts → route_to_gaming_agent
- If the query mentions price, pricing, estimates, valuations, predictions → route_to_price_agent
- If the query mentions brands, brand NFTs, specific brands (Starbucks, Nike, Adidas, etc.), brand categories → route_to_brand_agent
- If the query mentions DeFi, DEX, pools, protocols, pair addresses, Uniswap, Sushiswap, PancakeSwap → route_to_defi_agent
- If the query mentions fungible tokens, ERC-20, historical prices, token prices, price history → route_to_fungible_agent
- If the query mentions wallet, wallet analytics, wallet scores, wallet profiles, wallet performance, wallet ratings → route_to_wallet_agent
- If the query mentions token metrics, token price predictions, DEX prices, token performance, token market data → route_to_token_agent
- If the query mentions portfolio, DeFi holdings, NFT holdings, ERC20 tokens, wallet labels, wallet scores, wallet metrics, comprehensive wallet analysis → route_to_portfolio_agent
- If the query mentions both gaming AND pricing/price → route_to_both_agents
- If the query contains multiple parts that need different agents, SPLIT THE QUERY and use route_to_both_agents

**IMPORTANT: When splitting queries:**
- "collection metadata" → goes to price agent (get_supported_collections)
- "game contracts" → goes to gaming agent (get_game_contracts_info)
- "brand details", "brand metrics", "brand categories" → goes to brand agent
- "DeFi pools", "DEX protocols", "pair addresses" → goes to DeFi agent
- "fungible tokens", "ERC-20", "historical prices", "token prices" → goes to fungible token agent
- "token metrics", "token price predictions", "DEX prices", "token performance" → goes to token analytics agent

**Keywords for Gaming Agent:** game, gaming, player, contract, metrics, activity, performance, collection (in gaming context)
**Keywords for Price Agent:** price, pricing, estimate, prediction, valuation, cost, worth, value, metadata, collections
**Keywords for Brand Agent:** brand, brands, Starbucks, Nike, Adidas, Coca-Cola, McDonald's, Gucci, Louis Vuitton, category, categories
**Keywords for DeFi Agent:** defi, dex, pool, pools, protocol, protocols, pair, address, uniswap, sushiswap, pancakeswap, curve, balancer, aave, compound
**Keywords for Fungible Token Agent:** fungible, token, tokens, erc-20, erc20, historical, history, price history, token price, usdc, eth, dai
**Keywords for Wallet Analytics Agent:** wallet, analytics, scores, profile, performance, rating, ratings, portfolio, trading, metrics, trends
**Keywords for Token Analytics Agent:** token metrics, token price predictions, DEX prices, token performance, token market data, price forecasts, volatility trends
**Keywords for Portfolio Analysis Agent:** portfolio, defi holdings, nft holdings, erc20 tokens, wallet labels, wallet scores, wallet metrics, comprehensive analysis, wallet analysis, holdings, balance

**ALWAYS split complex queries that mention both collection metadata AND game contracts into separate parts for each agent.**`
