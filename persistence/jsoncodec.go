package persistence

import (
	"encoding/json"
	"io"
)

// JSONCodec encodes and decodes snapshots as indented JSON. File or
// network I/O stays with the caller; the codec only sees streams.
type JSONCodec struct{}

// Encode writes the snapshot onto the writer.
func (JSONCodec) Encode(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(s)
}

// Decode reads one snapshot from the reader.
func (JSONCodec) Decode(r io.Reader) (*Snapshot, error) {
	s := &Snapshot{}

	dec := json.NewDecoder(r)
	if err := dec.Decode(s); err != nil {
		return nil, err
	}

	return s, nil
}
