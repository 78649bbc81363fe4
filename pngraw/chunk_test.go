package pngraw

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"testing"
)

// makeChunk builds a wire-format chunk with a correct length and CRC.
func makeChunk(ctype string, payload []byte) []byte {
	buf := make([]byte, 0, 12+len(payload))
	var u [4]byte
	binary.BigEndian.PutUint32(u[:], uint32(len(payload)))
	buf = append(buf, u[:]...)
	buf = append(buf, ctype...)
	buf = append(buf, payload...)
	crc := crc32.NewIEEE()
	crc.Write([]byte(ctype))
	crc.Write(payload)
	binary.BigEndian.PutUint32(u[:], crc.Sum32())
	return append(buf, u[:]...)
}

// makePNG prepends the signature to a sequence of wire-format chunks.
func makePNG(chunks ...[]byte) []byte {
	buf := append([]byte{}, pngSignature...)
	for _, c := range chunks {
		buf = append(buf, c...)
	}
	return buf
}

func TestReadChunk(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	buf := makeChunk("tEXt", payload)

	cursor := 0
	c, err := readChunk(buf, &cursor)
	if err != nil {
		t.Fatalf("readChunk() error = %v", err)
	}

	if c.Type.String() != "tEXt" {
		t.Errorf("Type = %q, want tEXt", c.Type.String())
	}
	if c.Length != uint32(len(payload)) {
		t.Errorf("Length = %d, want %d", c.Length, len(payload))
	}
	if string(c.Payload) != string(payload) {
		t.Errorf("Payload = %v, want %v", c.Payload, payload)
	}
	if cursor != len(buf) {
		t.Errorf("cursor = %d, want %d", cursor, len(buf))
	}

	// The payload must be an owned copy, not a view into buf.
	buf[8]++
	if c.Payload[0] != payload[0] {
		t.Error("Payload aliases the input buffer")
	}
}

func TestReadChunk_EmptyPayload(t *testing.T) {
	buf := makeChunk("IEND", nil)

	cursor := 0
	c, err := readChunk(buf, &cursor)
	if err != nil {
		t.Fatalf("readChunk() error = %v", err)
	}

	if c.Length != 0 {
		t.Errorf("Length = %d, want 0", c.Length)
	}
	if len(c.Payload) != 0 {
		t.Errorf("len(Payload) = %d, want 0", len(c.Payload))
	}
	if c.Type != TypeIEND {
		t.Errorf("Type = %q, want IEND", c.Type.String())
	}
}

func TestReadChunk_Truncated(t *testing.T) {
	full := makeChunk("IDAT", []byte{9, 8, 7})

	tests := []struct {
		name    string
		cut     int // bytes to keep
		wantErr *PngError
	}{
		{name: "inside length", cut: 2, wantErr: ErrTruncated},
		{name: "inside type", cut: 6, wantErr: ErrTruncated},
		{name: "inside payload", cut: 9, wantErr: ErrInvalidLength},
		{name: "inside crc", cut: len(full) - 2, wantErr: ErrTruncated},
		{name: "missing crc", cut: len(full) - 4, wantErr: ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := 0
			_, err := readChunk(full[:tt.cut], &cursor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("readChunk() error = %v, want %v", err, tt.wantErr)
			}
			if cursor != 0 {
				t.Errorf("cursor = %d, want 0 after failure", cursor)
			}
		})
	}
}

func TestReadChunk_LengthPastEnd(t *testing.T) {
	buf := makeChunk("IDAT", []byte{1, 2, 3})
	// Declare far more payload bytes than the buffer holds.
	binary.BigEndian.PutUint32(buf[0:4], 0xFFFFFF00)

	cursor := 0
	_, err := readChunk(buf, &cursor)
	if !errors.Is(err, ErrInvalidLength) {
		t.Errorf("readChunk() error = %v, want %v", err, ErrInvalidLength)
	}
}

func TestReadChunk_ChecksumMismatch(t *testing.T) {
	buf := makeChunk("IDAT", []byte{1, 2, 3})
	buf[9] ^= 0xFF // flip one payload byte

	cursor := 0
	_, err := readChunk(buf, &cursor)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("readChunk() error = %v, want %v", err, ErrChecksumMismatch)
	}
	if cursor != 0 {
		t.Errorf("cursor = %d, want 0 after failure", cursor)
	}
}

func TestChunkType_Ancillary(t *testing.T) {
	tests := []struct {
		ctype string
		want  bool
	}{
		{"IHDR", false},
		{"IDAT", false},
		{"tEXt", true},
		{"gAMA", true},
	}

	for _, tt := range tests {
		t.Run(tt.ctype, func(t *testing.T) {
			var ct ChunkType
			copy(ct[:], tt.ctype)
			if got := ct.Ancillary(); got != tt.want {
				t.Errorf("Ancillary() = %v, want %v", got, tt.want)
			}
		})
	}
}
