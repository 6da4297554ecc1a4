package cache

// LayoutKeyOpts holds every option that changes a computed model.
type LayoutKeyOpts struct {
	Root         string  `json:"root"`
	MaxDepth     int     `json:"max_depth"`
	RingCount    int     `json:"ring_count"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MinRadius    float64 `json:"min_radius"`
	OuterPadding float64 `json:"outer_padding"`
	Flat         bool    `json:"flat,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Highlight string  `json:"highlight,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a model computed from the schema with the given hash.
	LayoutKey(schemaHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies an artifact rendered from the model with the given hash.
	ArtifactKey(modelHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(schemaHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", schemaHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", modelHash, opts)
}

// ScopedKeyer prefixes every key of an inner keyer, giving separate
// namespaces to caches that share a backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(schemaHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(schemaHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(modelHash, opts)
}
