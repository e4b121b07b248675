package graph

// Pass is an instance of a render pass plugin class together with its
// configuration options. The name is assigned when the pass is registered
// with a Graph.
type Pass struct {
	Name    string
	Type    string
	Options Options
}

// Create a pass instance of the given plugin class.
func NewPass(passType string, opts Options) *Pass {
	return &Pass{
		Type:    passType,
		Options: opts.Clone(),
	}
}

// Returns a copy of the pass instance.
func (p *Pass) Clone() *Pass {
	return &Pass{
		Name:    p.Name,
		Type:    p.Type,
		Options: p.Options.Clone(),
	}
}

func (p *Pass) equal(other *Pass) bool {
	if p.Name != other.Name || p.Type != other.Type || len(p.Options) != len(other.Options) {
		return false
	}
	for k, v := range p.Options {
		ov, ok := other.Options[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
