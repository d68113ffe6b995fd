package chunk

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// magic tags a serialized Mavix bytecode file; version lets the format
// evolve without breaking Deserialize's header check. Shape follows
// mcgru-funxy's Chunk.Serialize/Deserialize (magic + version + gob body).
var magic = [4]byte{'M', 'V', 'X', 'B'}

const version = 0x01

// fileHeader is the gob payload: the chunk plus a RunID label so a later
// `mavix -r` run can report which compile produced the bytecode.
type fileHeader struct {
	RunID string
	Chunk *Chunk
}

// Serialize encodes c into Mavix's on-disk bytecode format: a 4-byte
// magic number, a 1-byte version, then a gob-encoded payload. runID is
// typically the uuid generated for the compiling run (see cmd/mavix);
// it is opaque to this package.
func Serialize(c *Chunk, runID string) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(magic[:])
	buf.WriteByte(version)

	enc := gob.NewEncoder(buf)
	if err := enc.Encode(fileHeader{RunID: runID, Chunk: c}); err != nil {
		return nil, fmt.Errorf("chunk: gob encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize reconstructs a Chunk (and the run ID it was tagged with)
// from data previously produced by Serialize.
func Deserialize(data []byte) (*Chunk, string, error) {
	if len(data) < 5 {
		return nil, "", fmt.Errorf("chunk: data too short to be a bytecode file")
	}
	var got [4]byte
	copy(got[:], data[:4])
	if got != magic {
		return nil, "", fmt.Errorf("chunk: bad magic number, expected %q", string(magic[:]))
	}
	if data[4] != version {
		return nil, "", fmt.Errorf("chunk: unsupported bytecode version %d", data[4])
	}

	dec := gob.NewDecoder(bytes.NewReader(data[5:]))
	var header fileHeader
	if err := dec.Decode(&header); err != nil {
		return nil, "", fmt.Errorf("chunk: gob decode failed: %w", err)
	}
	return header.Chunk, header.RunID, nil
}
