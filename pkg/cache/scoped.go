package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one redis without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "wordcloud:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) FrequencyKey(textHash string, opts FrequencyKeyOpts) string {
	return k.prefix + k.inner.FrequencyKey(textHash, opts)
}

func (k *ScopedKeyer) LayoutKey(tableHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(tableHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
