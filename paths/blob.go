package paths

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/glrender/backend"
)

// ErrInvalidBlob is returned for malformed path blobs.
var ErrInvalidBlob = errors.New("paths: invalid path blob")

// blobMagic starts every path blob.
var blobMagic = [4]byte{'G', 'P', 'T', 'H'}

const blobVersion = 1

// maxBlobEntries bounds the counts read from a blob header.
const maxBlobEntries = 1 << 24

type blobHeader struct {
	Magic    [4]byte
	Version  uint32
	Commands uint32
	Coords   uint32
}

// Blob is a path loaded from a file: a command stream and the flat
// coordinate array it consumes. MoveTo takes two coordinates, CubicTo six
// (two control points then the end point) and Close none.
type Blob struct {
	Commands []backend.PathCommand
	Coords   []float32
}

func coordsOf(c backend.PathCommand) int {
	switch c {
	case backend.PathMoveTo:
		return 2
	case backend.PathCubicTo:
		return 6
	}
	return 0
}

// Validate checks that the commands consume exactly the coordinates.
func (b *Blob) Validate() error {
	n := 0
	for i, c := range b.Commands {
		if c > backend.PathClose {
			return fmt.Errorf("%w: command %d has unknown code %d", ErrInvalidBlob, i, c)
		}
		if c == backend.PathCubicTo && i == 0 {
			return fmt.Errorf("%w: path starts with a curve", ErrInvalidBlob)
		}
		n += coordsOf(c)
	}
	if n != len(b.Coords) {
		return fmt.Errorf("%w: commands use %d coordinates, have %d", ErrInvalidBlob, n, len(b.Coords))
	}
	return nil
}

// DecodeBlob reads a little-endian path blob: the magic "GPTH", the
// format version, the command and coordinate counts, one byte per
// command and float32 coordinates.
func DecodeBlob(r io.Reader) (*Blob, error) {
	br := bufio.NewReader(r)
	var h blobHeader
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrInvalidBlob, err)
	}
	if h.Magic != blobMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidBlob, h.Magic[:])
	}
	if h.Version != blobVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidBlob, h.Version)
	}
	if h.Commands > maxBlobEntries || h.Coords > maxBlobEntries {
		return nil, fmt.Errorf("%w: %d commands, %d coordinates", ErrInvalidBlob, h.Commands, h.Coords)
	}
	raw := make([]byte, h.Commands)
	if _, err := io.ReadFull(br, raw); err != nil {
		return nil, fmt.Errorf("%w: commands: %w", ErrInvalidBlob, err)
	}
	b := &Blob{
		Commands: make([]backend.PathCommand, len(raw)),
		Coords:   make([]float32, h.Coords),
	}
	for i, c := range raw {
		b.Commands[i] = backend.PathCommand(c)
	}
	if err := binary.Read(br, binary.LittleEndian, b.Coords); err != nil {
		return nil, fmt.Errorf("%w: coordinates: %w", ErrInvalidBlob, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Encode writes b in the format read by DecodeBlob.
func (b *Blob) Encode(w io.Writer) error {
	h := blobHeader{
		Magic:    blobMagic,
		Version:  blobVersion,
		Commands: uint32(len(b.Commands)),
		Coords:   uint32(len(b.Coords)),
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return err
	}
	raw := make([]byte, len(b.Commands))
	for i, c := range b.Commands {
		raw[i] = byte(c)
	}
	if _, err := bw.Write(raw); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, b.Coords); err != nil {
		return err
	}
	return bw.Flush()
}
