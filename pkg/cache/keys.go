package cache

import "strings"

// Key prefixes identify the kind of cached value.
const (
	PrefixFrame    = "frame"
	PrefixArtifact = "artifact"
)

// FrameKeyOpts are the inputs besides the response that change a frame.
type FrameKeyOpts struct {
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	ColorRange  []string `json:"color_range,omitempty"`
	ValueFormat string   `json:"value_format,omitempty"`
	Identity    string   `json:"identity,omitempty"`
}

// ArtifactKeyOpts are the inputs besides the frame that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Static bool   `json:"static,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// FrameKey returns the key for the frame built from the response with
	// the given content hash.
	FrameKey(responseHash string, opts FrameKeyOpts) string

	// ArtifactKey returns the key for one rendered format of a frame.
	ArtifactKey(frameKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) FrameKey(responseHash string, opts FrameKeyOpts) string {
	return hashKey(PrefixFrame, responseHash, opts)
}

func (DefaultKeyer) ArtifactKey(frameKey string, opts ArtifactKeyOpts) string {
	return hashKey(PrefixArtifact, frameKey, opts)
}

// ScopedKeyer prefixes every key of an inner [Keyer].
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes inner's keys. A nil inner is a [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

// NewVersionedKeyer scopes keys to a build version, so entries written by
// one release are never read by another.
func NewVersionedKeyer(version string) Keyer {
	version = strings.ReplaceAll(strings.TrimPrefix(version, "v"), ":", "_")
	if version == "" {
		version = "dev"
	}
	return NewScopedKeyer(nil, "v"+version+":")
}

func (k ScopedKeyer) FrameKey(responseHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(responseHash, opts)
}

func (k ScopedKeyer) ArtifactKey(frameKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameKey, opts)
}
