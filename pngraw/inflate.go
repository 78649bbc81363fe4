package pngraw

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/pngraw/pngraw/pngraw/logger"
)

// growHintCeiling caps the header-derived pre-allocation. A header is
// attacker-controlled data, so its declared size may only pre-allocate a
// bounded amount; anything larger grows on demand as bytes actually
// arrive from the decompressor.
const growHintCeiling = 32 << 20

// Inflater reassembles the compressed image-data stream from IDAT chunks
// and inflates it. The zero value is ready to use.
type Inflater struct {
	// MaxOutputBytes caps the inflated output size when greater than
	// zero. The IDAT stream declares no output size, so a hostile file
	// can otherwise expand without bound.
	MaxOutputBytes int64
}

// AssembleAndInflate concatenates the payloads of all IDAT chunks in file
// order and inflates the resulting zlib stream. hdr, when non-nil and
// non-interlaced, pre-sizes the output buffer; it is a hint only and
// never bounds the output. The returned slice owns its memory and shares
// nothing with the chunk payloads.
func (inf *Inflater) AssembleAndInflate(chunks []Chunk, hdr *ImageHeader) ([]byte, error) {
	var (
		compressed []byte
		found      bool
	)
	for _, c := range chunks {
		if c.Type != TypeIDAT {
			continue
		}
		found = true
		compressed = append(compressed, c.Payload...)
	}
	if !found {
		return nil, ErrNoImageData
	}
	logger.Debug("assembled %d compressed bytes from IDAT chunks", len(compressed))

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, ErrDecompressionFailed.WithCause(err)
	}
	defer zr.Close()

	var out bytes.Buffer
	if hdr != nil {
		hint := hdr.ExpectedRawSize()
		if inf.MaxOutputBytes > 0 && hint > inf.MaxOutputBytes {
			hint = inf.MaxOutputBytes
		}
		if hint > 0 && hint <= growHintCeiling {
			out.Grow(int(hint))
		}
	}

	src := io.Reader(zr)
	if inf.MaxOutputBytes > 0 {
		// Read one byte past the cap so overflow is distinguishable
		// from an exact fit.
		src = io.LimitReader(zr, inf.MaxOutputBytes+1)
	}
	if _, err := io.Copy(&out, src); err != nil {
		return nil, ErrDecompressionFailed.WithCause(err)
	}
	if inf.MaxOutputBytes > 0 && int64(out.Len()) > inf.MaxOutputBytes {
		return nil, ErrDecompressionFailed.
			WithMessage("inflated output exceeds size limit").
			WithDetail("limit", inf.MaxOutputBytes)
	}

	return out.Bytes(), nil
}

// AssembleAndInflate inflates the image-data stream with no output cap.
func AssembleAndInflate(chunks []Chunk, hdr *ImageHeader) ([]byte, error) {
	var inf Inflater
	return inf.AssembleAndInflate(chunks, hdr)
}
