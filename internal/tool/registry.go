package tool

import (
	"fmt"
)

// entry 把定义和处理函数绑定在一起。
type entry struct {
	def     Definition
	handler Handler
}

// Registry 保存一个智能体可用的全部工具，按注册顺序暴露定义。
// 注册发生在装配阶段，之后只读，无需加锁。
type Registry struct {
	entries []entry
	index   map[string]int
}

// NewRegistry 创建空的工具注册表。
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register 登记一个工具。重名视为装配错误。
func (r *Registry) Register(def Definition, handler Handler) error {
	if def.Name == "" {
		return fmt.Errorf("tool definition requires a name")
	}
	if handler == nil {
		return fmt.Errorf("tool %q requires a handler", def.Name)
	}
	if _, exists := r.index[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}
	r.index[def.Name] = len(r.entries)
	r.entries = append(r.entries, entry{def: def, handler: handler})
	return nil
}

// MustRegister 与 Register 相同，失败时 panic，用于静态装配目录。
func (r *Registry) MustRegister(def Definition, handler Handler) {
	if err := r.Register(def, handler); err != nil {
		panic(err)
	}
}

// Definitions 返回按注册顺序排列的定义副本。
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, len(r.entries))
	for i, e := range r.entries {
		defs[i] = e.def
	}
	return defs
}

// Lookup 按名称查找工具。
func (r *Registry) Lookup(name string) (Definition, Handler, bool) {
	i, ok := r.index[name]
	if !ok {
		return Definition{}, nil, false
	}
	return r.entries[i].def, r.entries[i].handler, true
}

// Len 返回已注册工具数。
func (r *Registry) Len() int {
	return len(r.entries)
}
