// Package metadata defines typed, in-memory sidecar records — ICC color
// profiles, EXIF camera tags, XMP descriptive metadata, and a free-form
// custom key/value bag — each able to marshal itself to and from the
// opaque byte blob a container chunk payload carries.
package metadata

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrTruncated is returned when a marshaled blob ends before a field it
// declares (a length prefix, a tag byte, a fixed-width value) is fully
// present.
var ErrTruncated = errors.New("metadata: truncated data")

// ErrUnknownValueType is returned when a tagged union's type byte (an
// ExifValue or Value variant) does not match any known case.
var ErrUnknownValueType = errors.New("metadata: unknown value type tag")

// writer accumulates a little-endian binary encoding, growing its backing
// slice as needed; it never fails.
type writer struct{ buf []byte }

func (w *writer) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
		return
	}
	w.u8(0)
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) i64(v int64) { w.u64(uint64(v)) }

func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *writer) bytes(v []byte) {
	w.u32(uint32(len(v)))
	w.buf = append(w.buf, v...)
}

func (w *writer) str(v string) { w.bytes([]byte(v)) }

// optStr writes a presence byte followed by the string when present.
func (w *writer) optStr(v *string) {
	w.bool(v != nil)
	if v != nil {
		w.str(*v)
	}
}

// reader consumes a little-endian binary encoding produced by writer,
// returning ErrTruncated the moment a declared field runs past the end
// of the buffer.
type reader struct {
	buf []byte
	pos int
}

func newReader(data []byte) *reader { return &reader{buf: data} }

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) u8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, ErrTruncated
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) boolean() (bool, error) {
	v, err := r.u8()
	return v != 0, err
}

func (r *reader) u32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) i64() (int64, error) {
	v, err := r.u64()
	return int64(v), err
}

func (r *reader) f64() (float64, error) {
	v, err := r.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if r.remaining() < int(n) {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

func (r *reader) str() (string, error) {
	b, err := r.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) optStr() (*string, error) {
	present, err := r.boolean()
	if err != nil || !present {
		return nil, err
	}
	s, err := r.str()
	if err != nil {
		return nil, err
	}
	return &s, nil
}
