package cache

// Keyer derives cache keys for the artifacts the pipeline produces.
type Keyer interface {
	// RenderKey identifies an ASCII rendering of the graph with the given
	// content hash under the given printer options.
	RenderKey(graphHash string, opts RenderKeyOpts) string

	// SVGKey identifies a Graphviz SVG rendering of the graph with the
	// given content hash.
	SVGKey(graphHash string) string
}

// RenderKeyOpts are the printer options that change rendered output and
// therefore participate in the cache key.
type RenderKeyOpts struct {
	Spacing     string `json:"spacing"`
	Spaces      int    `json:"spaces"`
	GroupPrefix bool   `json:"group_prefix"`
	GroupSuffix bool   `json:"group_suffix"`
}

// DefaultKeyer generates globally scoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer without scoping.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

func (k *DefaultKeyer) SVGKey(graphHash string) string {
	return hashKey("svg", graphHash)
}

// ScopedKeyer wraps a Keyer with a prefix so tenants sharing one backend
// get separate namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}

func (k *ScopedKeyer) SVGKey(graphHash string) string {
	return k.prefix + k.inner.SVGKey(graphHash)
}
