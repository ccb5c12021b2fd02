package template

// Resolver collapses an inheritance chain into an effective template. Parents
// are fetched by name through the Registry.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver backed by the given registry. A nil registry
// is valid for templates that never extend.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve produces the effective template for t. A template with no extends
// directive is its own effective template. Otherwise the extends chain is
// followed to its root, and every block node in the root's structure is
// replaced by the body declared by the nearest descendant that overrides it.
// Blocks declared by a descendant with no matching block anywhere in the
// ancestor chain are silently inert.
//
// Resolve fails with a CycleError when the chain revisits a template name,
// and with a NotFoundError when a parent cannot be fetched.
func (r *Resolver) Resolve(t *Template) (*EffectiveTemplate, error) {
	if t.Extends == "" {
		return &EffectiveTemplate{Name: t.Name, Nodes: substituteBlocks(t.Nodes, nil)}, nil
	}

	chain := []*Template{t}
	names := []string{displayName(t)}
	seen := map[string]bool{}
	if t.Name != "" {
		seen[t.Name] = true
	}

	cur := t
	for cur.Extends != "" {
		parentName := cur.Extends
		if seen[parentName] {
			return nil, &CycleError{Chain: append(names, parentName)}
		}
		if r.registry == nil {
			return nil, &NotFoundError{Name: parentName}
		}
		parent, err := r.registry.Get(parentName)
		if err != nil {
			return nil, err
		}
		seen[parentName] = true
		names = append(names, parentName)
		chain = append(chain, parent)
		cur = parent
	}

	// Nearest descendant wins per block name: walk from the root end of the
	// chain toward the child so later assignments overwrite earlier ones.
	overrides := make(map[string][]Node)
	for i := len(chain) - 2; i >= 0; i-- {
		for name, block := range chain[i].blocks {
			overrides[name] = block.Body
		}
	}

	root := chain[len(chain)-1]
	return &EffectiveTemplate{
		Name:  t.Name,
		Nodes: substituteBlocks(root.Nodes, overrides),
	}, nil
}

// substituteBlocks rewrites a node sequence, swapping each block's body for
// its winning override. Blocks may sit inside conditionals, so the walk
// recurses through every branch.
func substituteBlocks(nodes []Node, overrides map[string][]Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case *BlockNode:
			body := v.Body
			if override, ok := overrides[v.Name]; ok {
				body = override
			}
			out = append(out, &BlockNode{Name: v.Name, Body: substituteBlocks(body, overrides)})
		case *CondNode:
			sub := &CondNode{Branches: make([]CondBranch, len(v.Branches))}
			for i, b := range v.Branches {
				sub.Branches[i] = CondBranch{Cond: b.Cond, Body: substituteBlocks(b.Body, overrides)}
			}
			if v.Else != nil {
				sub.Else = substituteBlocks(v.Else, overrides)
			}
			out = append(out, sub)
		default:
			out = append(out, n)
		}
	}
	return out
}

func displayName(t *Template) string {
	if t.Name == "" {
		return "<string>"
	}
	return t.Name
}
