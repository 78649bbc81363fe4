package pngraw

import (
	"bytes"

	"github.com/pngraw/pngraw/pngraw/logger"
)

// pngSignature is the fixed 8-byte sequence every PNG file starts with.
var pngSignature = []byte{137, 80, 78, 71, 13, 10, 26, 10}

// SignatureSize is the length of the PNG file signature in bytes.
const SignatureSize = 8

// ParseContainer walks the chunk sequence of a complete PNG file held in
// buf. It verifies the signature, then reads chunks until the IEND
// terminator, which is included in the returned sequence. Any chunk error
// aborts the parse; a partial sequence is never returned.
//
// A container whose first chunk is IEND is degenerate but legal at this
// layer; ParseHeader rejects it separately.
func ParseContainer(buf []byte) ([]Chunk, error) {
	if len(buf) < SignatureSize || !bytes.Equal(buf[:SignatureSize], pngSignature) {
		return nil, ErrInvalidSignature
	}

	var chunks []Chunk
	cursor := SignatureSize
	for {
		if cursor >= len(buf) {
			return nil, ErrUnexpectedEOC.WithDetail("chunksRead", len(chunks))
		}

		start := cursor
		c, err := readChunk(buf, &cursor)
		if err != nil {
			return nil, err
		}
		logger.Debug("chunk %q at offset %d (%d bytes)", c.Type.String(), start, c.Length)
		chunks = append(chunks, c)

		if c.Type == TypeIEND {
			return chunks, nil
		}
	}
}
