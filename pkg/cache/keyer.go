package cache

// Key type labels, also used as observability labels.
const (
	KeyTypeLayout = "layout"
	KeyTypeRender = "render"
)

// LayoutKeyOpts lists every input that changes a computed layout besides the
// graph itself.
type LayoutKeyOpts struct {
	Algorithm string  `json:"algorithm"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Seed      uint64  `json:"seed"`
	Params    any     `json:"params,omitempty"`
}

// RenderKeyOpts lists every input that changes a rendered artifact besides
// the layout.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>" over the graph hash and options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return keyFor(KeyTypeLayout, graphHash, opts)
}

// RenderKey returns "render:<sha256>" over the layout hash and options.
func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return keyFor(KeyTypeRender, layoutHash, opts)
}
