// Package pixels implements the post-generation pixel pipeline.
//
// chromakey.go implements chroma-key alpha extraction: converting the flat
// key green painted by the edit model into true transparency.
package pixels

// Default key classification thresholds.
const (
	// DefaultMinGreenValue is the minimum green channel value for a pixel
	// to qualify as key color. Filters out near-black noise.
	DefaultMinGreenValue = 40

	// DefaultDominanceMargin is how far green must exceed both red and
	// blue. Keeps bright neutral pixels (white, grey) from matching.
	DefaultDominanceMargin = 10
)

// KeyPolicy controls which pixels are classified as key color.
// A pixel (r,g,b) is key iff g > r+DominanceMargin AND g > b+DominanceMargin
// AND g > MinGreenValue. Immutable for a given generation run.
type KeyPolicy struct {
	MinGreenValue   uint8
	DominanceMargin uint8
}

// DefaultKeyPolicy returns the policy used for all generations unless
// overridden by configuration.
func DefaultKeyPolicy() KeyPolicy {
	return KeyPolicy{
		MinGreenValue:   DefaultMinGreenValue,
		DominanceMargin: DefaultDominanceMargin,
	}
}

// ExtractKey sets alpha to zero on every key-classified pixel of the buffer,
// in place. RGB channels are never modified, so a downstream composite that
// ignores alpha still sees the original color data. Non-key pixels are left
// byte-identical, alpha included.
//
// The function is total and deterministic: it never fails, tolerates a nil
// or empty buffer as a no-op, and is idempotent because classification does
// not read the alpha channel.
func ExtractKey(buf *PixelBuffer, policy KeyPolicy) {
	if buf == nil {
		return
	}

	minGreen := int(policy.MinGreenValue)
	margin := int(policy.DominanceMargin)

	pix := buf.Pix
	for i := 0; i+bytesPerPixel <= len(pix); i += bytesPerPixel {
		// Compare in int so g+margin cannot wrap a uint8.
		r := int(pix[i])
		g := int(pix[i+1])
		b := int(pix[i+2])

		if g > r+margin && g > b+margin && g > minGreen {
			pix[i+3] = 0
		}
	}
}
