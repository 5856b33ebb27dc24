package paths

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/glrender/backend"
)

func squareBlob() *Blob {
	return &Blob{
		Commands: []backend.PathCommand{backend.PathMoveTo, backend.PathCubicTo, backend.PathCubicTo, backend.PathClose},
		Coords: []float32{
			0, 0,
			10, 0, 20, 0, 30, 0,
			30, 10, 30, 20, 30, 30,
		},
	}
}

func TestBlobEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := squareBlob().Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := buf.Bytes()[:4]; string(got) != "GPTH" {
		t.Errorf("magic = %q, want GPTH", got)
	}
	got, err := DecodeBlob(&buf)
	if err != nil {
		t.Fatalf("DecodeBlob() error = %v", err)
	}
	if !reflect.DeepEqual(got, squareBlob()) {
		t.Errorf("DecodeBlob() = %+v, want %+v", got, squareBlob())
	}
}

func TestDecodeBlobRejects(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		if err := squareBlob().Encode(&buf); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"bad version", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[4:], 7); return b }},
		{"truncated", func(b []byte) []byte { return b[:len(b)-3] }},
		{"short header", func(b []byte) []byte { return b[:6] }},
		{"unknown command", func(b []byte) []byte { b[16] = 9; return b }},
		{"coordinate mismatch", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[12:], 12)
			return b[:len(b)-4]
		}},
		{"huge count", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[8:], 1<<30); return b }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBlob(bytes.NewReader(tt.mutate(valid())))
			if !errors.Is(err, ErrInvalidBlob) {
				t.Errorf("DecodeBlob() error = %v, want ErrInvalidBlob", err)
			}
		})
	}
}

func TestBlobValidate(t *testing.T) {
	b := &Blob{Commands: []backend.PathCommand{backend.PathCubicTo}, Coords: make([]float32, 6)}
	if err := b.Validate(); !errors.Is(err, ErrInvalidBlob) {
		t.Errorf("Validate() of a path starting with a curve = %v, want ErrInvalidBlob", err)
	}
	if err := squareBlob().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
