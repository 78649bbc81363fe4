package pngraw

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ColorType is the IHDR color type field.
type ColorType uint8

const (
	Grayscale      ColorType = 0
	Truecolor      ColorType = 2
	Indexed        ColorType = 3
	GrayscaleAlpha ColorType = 4
	TruecolorAlpha ColorType = 6
)

func (c ColorType) String() string {
	switch c {
	case Grayscale:
		return "grayscale"
	case Truecolor:
		return "truecolor"
	case Indexed:
		return "indexed"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case TruecolorAlpha:
		return "truecolor+alpha"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// channels returns the number of samples per pixel for the color type.
func (c ColorType) channels() int {
	switch c {
	case Truecolor:
		return 3
	case GrayscaleAlpha:
		return 2
	case TruecolorAlpha:
		return 4
	default: // Grayscale, Indexed
		return 1
	}
}

// ihdrSize is the fixed payload size of the IHDR chunk.
const ihdrSize = 13

// ImageHeader holds the validated fields of the IHDR chunk. It is
// immutable once ParseHeader returns it.
type ImageHeader struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

// Interlaced reports whether the image uses Adam7 interlacing.
func (h ImageHeader) Interlaced() bool {
	return h.InterlaceMethod == 1
}

// ExpectedRawSize returns the size of the inflated scanline stream for a
// non-interlaced image: per row, one filter-type byte plus the packed
// pixel bytes. Returns 0 when no usable size exists: for interlaced
// images, whose pass layout this decoder does not model, and for headers
// whose dimensions overflow int64. Every field here comes straight from
// the file, so the arithmetic must not be trusted to stay in range.
func (h ImageHeader) ExpectedRawSize() int64 {
	if h.Interlaced() || h.Height == 0 {
		return 0
	}
	bitsPerPixel := int64(h.ColorType.channels()) * int64(h.BitDepth)
	bytesPerRow := (int64(h.Width)*bitsPerPixel + 7) / 8
	rowSize := 1 + bytesPerRow
	if rowSize > math.MaxInt64/int64(h.Height) {
		return 0
	}
	return int64(h.Height) * rowSize
}

// legalBitDepths maps each color type to its allowed bit depths.
var legalBitDepths = map[ColorType][]uint8{
	Grayscale:      {1, 2, 4, 8, 16},
	Truecolor:      {8, 16},
	Indexed:        {1, 2, 4, 8},
	GrayscaleAlpha: {8, 16},
	TruecolorAlpha: {8, 16},
}

// ParseHeader interprets the first chunk of the container as the IHDR
// record and validates every field. The container walker guarantees chunk
// ordering but not that the first chunk actually is IHDR, so the tag is
// checked here rather than silently misreading whatever came first.
func ParseHeader(c Chunk) (ImageHeader, error) {
	if c.Type != TypeIHDR {
		return ImageHeader{}, ErrMissingHeaderChunk.WithDetail("chunkType", c.Type.String())
	}
	if len(c.Payload) < ihdrSize {
		return ImageHeader{}, ErrHeaderTooShort.WithDetail("length", len(c.Payload))
	}

	h := ImageHeader{
		Width:             binary.BigEndian.Uint32(c.Payload[0:4]),
		Height:            binary.BigEndian.Uint32(c.Payload[4:8]),
		BitDepth:          c.Payload[8],
		ColorType:         ColorType(c.Payload[9]),
		CompressionMethod: c.Payload[10],
		FilterMethod:      c.Payload[11],
		InterlaceMethod:   c.Payload[12],
	}

	if h.Width == 0 {
		return ImageHeader{}, ErrInvalidDimension.WithDetail("field", "width")
	}
	if h.Height == 0 {
		return ImageHeader{}, ErrInvalidDimension.WithDetail("field", "height")
	}

	if !validBitDepth(h.BitDepth) {
		return ImageHeader{}, ErrInvalidBitDepth.WithDetail("bitDepth", h.BitDepth)
	}
	depths, ok := legalBitDepths[h.ColorType]
	if !ok {
		return ImageHeader{}, ErrInvalidColorType.WithDetail("colorType", uint8(h.ColorType))
	}
	if !containsDepth(depths, h.BitDepth) {
		return ImageHeader{}, ErrIncompatibleBitDepth.
			WithDetail("bitDepth", h.BitDepth).
			WithDetail("colorType", h.ColorType.String())
	}

	if h.CompressionMethod != 0 {
		return ImageHeader{}, ErrUnsupportedCompression.WithDetail("compressionMethod", h.CompressionMethod)
	}
	if h.FilterMethod != 0 {
		return ImageHeader{}, ErrUnsupportedFilter.WithDetail("filterMethod", h.FilterMethod)
	}
	if h.InterlaceMethod > 1 {
		return ImageHeader{}, ErrInvalidInterlace.WithDetail("interlaceMethod", h.InterlaceMethod)
	}

	return h, nil
}

func validBitDepth(d uint8) bool {
	switch d {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}

func containsDepth(depths []uint8, d uint8) bool {
	for _, v := range depths {
		if v == d {
			return true
		}
	}
	return false
}
