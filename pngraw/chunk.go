package pngraw

import (
	"encoding/binary"
	"hash/crc32"
)

const (
	chunkLengthSize = 4
	chunkTypeSize   = 4
	chunkCrcSize    = 4
)

// ChunkType is the 4-byte tag identifying a chunk. It is raw binary data,
// never endianness-converted and never treated as a terminated string.
type ChunkType [chunkTypeSize]byte

var (
	// TypeIHDR tags the image header chunk, always first in the container.
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	// TypeIDAT tags a compressed image-data chunk.
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	// TypeIEND tags the terminator chunk, always last in the container.
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
)

func (t ChunkType) String() string {
	return string(t[:])
}

// Ancillary reports whether the chunk is ancillary (bit 5 of the first
// tag byte set, i.e. a lowercase first letter). This decoder only passes
// ancillary chunks through; it never interprets them.
func (t ChunkType) Ancillary() bool {
	return t[0]&0x20 != 0
}

// Chunk is one record of the PNG container: a length-prefixed, type-tagged,
// CRC-protected payload. Each chunk starts with a uint32 length (big
// endian), then the 4-byte type, then the payload and finally the CRC32
// computed over type and payload.
type Chunk struct {
	Length  uint32    // payload length in bytes
	Type    ChunkType // chunk type tag
	Payload []byte    // owned copy of the payload, never aliasing the file buffer
	Crc32   uint32    // stored CRC32 of type||payload
}

// readChunk parses one chunk from buf starting at *cursor and advances the
// cursor past it. The cursor is only advanced on success. The payload is
// copied out of buf so the chunk stays valid after the caller releases the
// file buffer.
func readChunk(buf []byte, cursor *int) (Chunk, error) {
	var c Chunk
	pos := *cursor

	if len(buf)-pos < chunkLengthSize {
		return Chunk{}, ErrTruncated.WithDetail("offset", pos).WithDetail("field", "length")
	}
	c.Length = binary.BigEndian.Uint32(buf[pos:])
	pos += chunkLengthSize

	if len(buf)-pos < chunkTypeSize {
		return Chunk{}, ErrTruncated.WithDetail("offset", pos).WithDetail("field", "type")
	}
	copy(c.Type[:], buf[pos:])
	pos += chunkTypeSize

	// The length is attacker-controlled; check it against the remaining
	// buffer before copying, leaving room for the trailing CRC.
	if uint64(c.Length) > uint64(len(buf)-pos) {
		return Chunk{}, ErrInvalidLength.
			WithDetail("chunkType", c.Type.String()).
			WithDetail("length", c.Length).
			WithDetail("remaining", len(buf)-pos)
	}
	c.Payload = make([]byte, c.Length)
	copy(c.Payload, buf[pos:pos+int(c.Length)])
	pos += int(c.Length)

	if len(buf)-pos < chunkCrcSize {
		return Chunk{}, ErrTruncated.WithDetail("offset", pos).WithDetail("field", "crc")
	}
	c.Crc32 = binary.BigEndian.Uint32(buf[pos:])
	pos += chunkCrcSize

	crc := crc32.NewIEEE()
	crc.Write(c.Type[:])
	crc.Write(c.Payload)
	if sum := crc.Sum32(); sum != c.Crc32 {
		return Chunk{}, ErrChecksumMismatch.
			WithDetail("chunkType", c.Type.String()).
			WithDetail("stored", c.Crc32).
			WithDetail("computed", sum)
	}

	*cursor = pos
	return c, nil
}
