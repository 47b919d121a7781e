package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// ToolFunc executes a tool with already-parsed parameters.
type ToolFunc func(ctx context.Context, params map[string]any) (string, error)

// Tool couples a callable with the schema advertised to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema for the parameters object
	Fn          ToolFunc
}

// Registry is the single canonical lookup for tools. Resolution is by exact
// name equality; there is deliberately no fallback or fuzzy matching.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get returns the callable registered under name, or false.
func (r *Registry) Get(name string) (ToolFunc, bool) {
	t, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return t.Fn, true
}

// Definitions renders the registry for providers with native tool calling.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return defs
}

// Manifest renders a plain-text tool listing for providers that cannot
// receive structured tool definitions and instead emit pseudo calls in text.
func (r *Registry) Manifest() string {
	if len(r.order) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Tools available:\n")
	for _, name := range r.order {
		t := r.tools[name]
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	return b.String()
}
