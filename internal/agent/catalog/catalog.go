package catalog

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/collab"
)

// All 返回全部八个专家智能体的装配配置，均绑定同一个数据服务客户端。
func All(api *collab.Client) []agent.Config {
	return []agent.Config{
		Gaming(api),
		Price(api),
		Brand(api),
		DeFi(api),
		Fungible(api),
		Wallet(api),
		Token(api),
		Portfolio(api),
	}
}

// argString 把 JSON 解码后的实参渲染成查询参数值。
// 整数经 JSON 解码后是 float64，需要还原成不带小数点的形式。
func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}

// requireArg 读取必填实参，缺失时返回错误。
func requireArg(args map[string]any, key string) (string, error) {
	value, ok := argString(args, key)
	if !ok {
		return "", fmt.Errorf("缺少必填参数 %q", key)
	}
	return value, nil
}

// setParam 在实参存在时写入查询参数。
func setParam(q url.Values, args map[string]any, key string) {
	if value, ok := argString(args, key); ok {
		q.Set(key, value)
	}
}
