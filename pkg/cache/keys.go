package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey names one rendered output of one set of inputs.
	ArtifactKey(inputHash, format string) string
}

// DefaultKeyer produces artifact:<hash>:<format> keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(inputHash, format string) string {
	return "artifact:" + inputHash + ":" + format
}

// ScopedKeyer prefixes every key of an inner keyer, so that several
// deployments can share one Redis database.
//
//	keyer := NewScopedKeyer(nil, "fabgen:api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(inputHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, format)
}
