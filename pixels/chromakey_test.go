package pixels

import (
	"bytes"
	"testing"
)

// makeBuffer builds a PixelBuffer from a flat list of (r,g,b,a) tuples.
func makeBuffer(t *testing.T, width, height int, rgba ...byte) *PixelBuffer {
	t.Helper()
	if len(rgba) != width*height*4 {
		t.Fatalf("makeBuffer: want %d bytes, got %d", width*height*4, len(rgba))
	}
	pix := make([]byte, len(rgba))
	copy(pix, rgba)
	return &PixelBuffer{Width: width, Height: height, Pix: pix}
}

func TestExtractKey_Classification(t *testing.T) {
	tests := []struct {
		name      string
		pixel     [4]byte
		wantAlpha byte
	}{
		{
			name:      "pure green is key",
			pixel:     [4]byte{0, 255, 0, 255},
			wantAlpha: 0,
		},
		{
			name:      "saturated green above threshold is key",
			pixel:     [4]byte{30, 200, 30, 255},
			wantAlpha: 0,
		},
		{
			name:      "white is not key despite bright green channel",
			pixel:     [4]byte{255, 255, 255, 255},
			wantAlpha: 255,
		},
		{
			name:      "grey is not key",
			pixel:     [4]byte{200, 200, 200, 255},
			wantAlpha: 255,
		},
		{
			name:      "dark green below minimum is not key",
			pixel:     [4]byte{0, 40, 0, 255},
			wantAlpha: 255,
		},
		{
			name:      "green just above minimum with dominance is key",
			pixel:     [4]byte{0, 41, 0, 255},
			wantAlpha: 0,
		},
		{
			name:      "dominance margin is strict on red",
			pixel:     [4]byte{90, 100, 0, 255},
			wantAlpha: 255,
		},
		{
			name:      "dominance margin is strict on blue",
			pixel:     [4]byte{0, 100, 90, 255},
			wantAlpha: 255,
		},
		{
			name:      "one past the margin on both channels is key",
			pixel:     [4]byte{89, 100, 89, 255},
			wantAlpha: 0,
		},
		{
			name:      "red dominant is not key",
			pixel:     [4]byte{255, 100, 0, 255},
			wantAlpha: 255,
		},
		{
			name:      "blue dominant is not key",
			pixel:     [4]byte{0, 100, 255, 255},
			wantAlpha: 255,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := makeBuffer(t, 1, 1, tt.pixel[0], tt.pixel[1], tt.pixel[2], tt.pixel[3])
			ExtractKey(buf, DefaultKeyPolicy())

			if got := buf.Pix[3]; got != tt.wantAlpha {
				t.Errorf("alpha = %d, want %d", got, tt.wantAlpha)
			}

			// RGB must never change, key or not.
			for i := 0; i < 3; i++ {
				if buf.Pix[i] != tt.pixel[i] {
					t.Errorf("channel %d = %d, want %d (RGB must be untouched)",
						i, buf.Pix[i], tt.pixel[i])
				}
			}
		})
	}
}

func TestExtractKey_NonKeyPixelsByteIdentical(t *testing.T) {
	buf := makeBuffer(t, 2, 2,
		200, 200, 200, 255, // grey, not key
		10, 20, 30, 128, // dark, not key
		255, 0, 0, 64, // red, not key
		0, 0, 255, 0, // blue, not key
	)
	before := append([]byte(nil), buf.Pix...)

	ExtractKey(buf, DefaultKeyPolicy())

	if !bytes.Equal(buf.Pix, before) {
		t.Errorf("non-key pixels changed:\n before %v\n after  %v", before, buf.Pix)
	}
}

func TestExtractKey_GreenBesideGrey(t *testing.T) {
	// 2x1: pure green then light grey.
	buf := makeBuffer(t, 2, 1,
		0, 255, 0, 255,
		200, 200, 200, 255,
	)

	ExtractKey(buf, DefaultKeyPolicy())

	want := []byte{
		0, 255, 0, 0,
		200, 200, 200, 255,
	}
	if !bytes.Equal(buf.Pix, want) {
		t.Errorf("buffer = %v, want %v", buf.Pix, want)
	}
}

func TestExtractKey_Idempotent(t *testing.T) {
	buf := makeBuffer(t, 2, 2,
		0, 255, 0, 255,
		30, 220, 40, 255,
		128, 128, 128, 255,
		0, 100, 90, 200,
	)

	ExtractKey(buf, DefaultKeyPolicy())
	once := append([]byte(nil), buf.Pix...)

	ExtractKey(buf, DefaultKeyPolicy())

	if !bytes.Equal(buf.Pix, once) {
		t.Errorf("second extraction changed buffer:\n once  %v\n twice %v", once, buf.Pix)
	}
}

func TestExtractKey_CustomPolicy(t *testing.T) {
	// With a wide margin the moderately green pixel no longer qualifies.
	buf := makeBuffer(t, 1, 1, 80, 120, 80, 255)
	ExtractKey(buf, KeyPolicy{MinGreenValue: 40, DominanceMargin: 50})
	if buf.Pix[3] != 255 {
		t.Errorf("alpha = %d, want 255 with 50-point margin", buf.Pix[3])
	}

	buf = makeBuffer(t, 1, 1, 80, 120, 80, 255)
	ExtractKey(buf, KeyPolicy{MinGreenValue: 40, DominanceMargin: 10})
	if buf.Pix[3] != 0 {
		t.Errorf("alpha = %d, want 0 with default margin", buf.Pix[3])
	}
}

func TestExtractKey_NilAndEmptyBufferNoop(t *testing.T) {
	ExtractKey(nil, DefaultKeyPolicy()) // must not panic

	empty := &PixelBuffer{}
	ExtractKey(empty, DefaultKeyPolicy())
	if len(empty.Pix) != 0 {
		t.Errorf("empty buffer grew to %d bytes", len(empty.Pix))
	}
}

func TestExtractKey_MaxGreenDoesNotOverflow(t *testing.T) {
	// g=255 with a 255 margin: 255 > r+255 can never hold, and the int
	// comparison must not wrap.
	buf := makeBuffer(t, 1, 1, 0, 255, 0, 255)
	ExtractKey(buf, KeyPolicy{MinGreenValue: 255, DominanceMargin: 255})
	if buf.Pix[3] != 255 {
		t.Errorf("alpha = %d, want 255 (classification must fail)", buf.Pix[3])
	}
}

func TestDefaultKeyPolicy(t *testing.T) {
	p := DefaultKeyPolicy()
	if p.MinGreenValue != 40 {
		t.Errorf("MinGreenValue = %d, want 40", p.MinGreenValue)
	}
	if p.DominanceMargin != 10 {
		t.Errorf("DominanceMargin = %d, want 10", p.DominanceMargin)
	}
}
