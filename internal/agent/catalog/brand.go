package catalog

import (
	"context"
	"net/url"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const brandBasePath = "/api/v1/brand"

// supportedBrands 是数据服务当前覆盖的品牌全集。
var supportedBrands = []any{
	"Coachella", "Star Trek", "Kith Friends", "Grimace Digital", "Collectible", "Karafuru",
	"Macys", "Ping Fong", "Puma", "Lamborghini", "Coca-Cola",
	"TIMEPieces x Timbaland: The Beatclub Collection", "Hugo", "McDonalds", "StarBucks",
	"Asics", "Louis vuitton", "Moncler", "Gucci", "Givenchy", "Reddit", "Clinique",
	"Coach", "AP Photojournalism NFTs", "Hello kitty", "TommyHilfiger", "Budweiser",
	"YSL Beauty Pride Block", "Liverpool Football club", "MG Motors", "Adidas",
	"Burger King", "Nivea", "Nike", "Times Magazine", "AO ArtBall", "LimeWire",
	"Chicago Bulls", "Prada", "Nickelodeon", "Rimova", "Reebok", "Burberry",
	"Dolce and Gabbana", "Rolling Stone Magazine", "Adam Bomb Squad", "The Walking Dead",
	"Hyundai", "Mercedes Benz", "BlockBar", "Pepsi", "Hublot", "Bugatti", "McLaren",
	"Bud light", "Flyfish Club", "Porsche", "Lacoste", "Tiffany and co", "Tiger Beer",
	"9dcc", "Netflix",
}

var supportedBrandCategories = []any{
	"Fashion", "Metaverse", "Social Media", "Sports", "Food & Beverage", "Cars",
	"Sports Club", "Skincare & Cosmetics", "Restaurant & Hotel membership", "Books",
	"Media & Entertainment", "Collectibles",
}

const brandSystemPrompt = `You are an NFT Brand Metrics Assistant. You help users get information about NFT brand metrics using three main tools:

1. get_brand_details - Use this when users mention a specific brand name (like "Starbucks", "Nike", "Adidas", etc.). This gets metrics for a specific brand.

2. get_brand_metrics_by_contract - Use this when users provide a specific contract address for a brand collection. This gets metrics for a brand by contract address.

3. get_brand_category_details - Use this when users ask about brands in a specific category (like "Sports", "Fashion", "Food & Beverage", etc.). This gets all brands in a category.

IMPORTANT:
- If users mention a specific brand name, use get_brand_details
- If users provide a contract address, use get_brand_metrics_by_contract
- If users ask about brands in a category, use get_brand_category_details

Supported categories include: Fashion, Metaverse, Social Media, Sports, Food & Beverage, Cars, Sports Club, Skincare & Cosmetics, Restaurant & Hotel membership, Books, Media & Entertainment, Collectibles

When users ask questions, determine which tool(s) to use and call them appropriately. Provide clear, helpful responses based on the data returned.`

// Brand 装配品牌分析智能体。
func Brand(api *collab.Client) agent.Config {
	registry := tool.NewRegistry()

	registry.MustRegister(tool.Definition{
		Name:        "get_brand_details",
		Description: "Get combined metrics for a specific brand NFT. Use this when users mention a specific brand name.",
		Params: []tool.Param{
			{Name: "brand", Type: "string", Description: "Name of the brand to fetch details for", Required: true, Enum: supportedBrands},
			{Name: "time_range", Type: "string", Description: "Time range for metrics (e.g., 24h, 7d, 30d)", Default: "24h"},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		brand, err := requireArg(args, "brand")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("brand", brand)
		setParam(query, args, "time_range")
		return api.Get(ctx, brandBasePath, query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_brand_metrics_by_contract",
		Description: "Get combined metrics for brand collections by contract address. Use this when users provide a specific contract address for a brand.",
		Params: []tool.Param{
			{Name: "chain_id", Type: "integer", Description: "Chain ID for the blockchain", Default: 1, Enum: []any{1, 137, 43114, 56, 101, 59144}},
			{Name: "contract_address", Type: "string", Description: "Contract address of the brand collection", Required: true},
			{Name: "time_range", Type: "string", Description: "Time range for metrics (e.g., 24h, 7d, 30d)", Default: "24h"},
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
		query := url.Values{}
		setParam(query, args, "time_range")
		path := brandBasePath + "/" + url.PathEscape(chainID) + "/" + url.PathEscape(contract)
		return api.Get(ctx, path, query)
	})

	registry.MustRegister(tool.Definition{
		Name:        "get_brand_category_details",
		Description: "Get brand category details for NFTs. Use this when users ask about brands in a specific category like 'Sports', 'Fashion', etc.",
		Params: []tool.Param{
			{Name: "category", Type: "string", Description: "Category of brands to fetch", Required: true, Enum: supportedBrandCategories},
			{Name: "limit", Type: "integer", Description: "Number of results to return", Default: 30},
			{Name: "offset", Type: "integer", Description: "Offset for pagination", Default: 0},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		category, err := requireArg(args, "category")
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		query.Set("category", category)
		setParam(query, args, "offset")
		setParam(query, args, "limit")
		return api.Get(ctx, brandBasePath+"/category", query)
	})

	return agent.Config{
		ID:          "brand",
		Name:        "NFT Brand Agent",
		Description: "Handles brand NFTs, brand metrics, brand categories, specific brands like Starbucks, Nike, Adidas, etc.",
		Keywords: []string{
			"brand", "brands", "Starbucks", "Nike", "Adidas", "Coca-Cola", "McDonald's",
			"Gucci", "Louis Vuitton", "category", "categories",
		},
		SystemPrompt: brandSystemPrompt,
		Registry:     registry,
	}
}
