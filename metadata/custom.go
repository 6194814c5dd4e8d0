package metadata

import "fmt"

// valueTag identifies a Value variant on the wire.
type valueTag uint8

const (
	tagString valueTag = iota
	tagInt
	tagFloat
	tagBool
	tagBytes
	tagArray
)

// Value is a recursive, dynamically-typed field value for Custom metadata:
// a string, number, boolean, byte blob, or an array of further Values.
type Value struct {
	tag   valueTag
	str   string
	i     int64
	f     float64
	b     bool
	bytes []byte
	arr   []Value
}

func StringFieldValue(v string) Value  { return Value{tag: tagString, str: v} }
func IntFieldValue(v int64) Value      { return Value{tag: tagInt, i: v} }
func FloatFieldValue(v float64) Value  { return Value{tag: tagFloat, f: v} }
func BoolFieldValue(v bool) Value      { return Value{tag: tagBool, b: v} }
func BytesFieldValue(v []byte) Value   { return Value{tag: tagBytes, bytes: v} }
func ArrayFieldValue(v []Value) Value  { return Value{tag: tagArray, arr: v} }

func (v Value) AsString() (string, bool) {
	if v.tag == tagString {
		return v.str, true
	}
	return "", false
}

func (v Value) AsInt() (int64, bool) {
	if v.tag == tagInt {
		return v.i, true
	}
	return 0, false
}

func (v Value) AsFloat() (float64, bool) {
	if v.tag == tagFloat {
		return v.f, true
	}
	return 0, false
}

func (v Value) AsBool() (bool, bool) {
	if v.tag == tagBool {
		return v.b, true
	}
	return false, false
}

func (v Value) AsBytes() ([]byte, bool) {
	if v.tag == tagBytes {
		return v.bytes, true
	}
	return nil, false
}

func (v Value) AsArray() ([]Value, bool) {
	if v.tag == tagArray {
		return v.arr, true
	}
	return nil, false
}

func (v Value) marshal(w *writer) {
	w.u8(uint8(v.tag))
	switch v.tag {
	case tagString:
		w.str(v.str)
	case tagInt:
		w.i64(v.i)
	case tagFloat:
		w.f64(v.f)
	case tagBool:
		w.bool(v.b)
	case tagBytes:
		w.bytes(v.bytes)
	case tagArray:
		w.u32(uint32(len(v.arr)))
		for _, e := range v.arr {
			e.marshal(w)
		}
	}
}

func unmarshalValue(r *reader) (Value, error) {
	tag, err := r.u8()
	if err != nil {
		return Value{}, err
	}
	v := Value{tag: valueTag(tag)}
	switch v.tag {
	case tagString:
		v.str, err = r.str()
	case tagInt:
		v.i, err = r.i64()
	case tagFloat:
		v.f, err = r.f64()
	case tagBool:
		v.b, err = r.boolean()
	case tagBytes:
		v.bytes, err = r.bytes()
	case tagArray:
		var n uint32
		n, err = r.u32()
		if err != nil {
			return Value{}, err
		}
		v.arr = make([]Value, n)
		for i := range v.arr {
			if v.arr[i], err = unmarshalValue(r); err != nil {
				return Value{}, err
			}
		}
	default:
		return Value{}, fmt.Errorf("metadata: custom field: %w", ErrUnknownValueType)
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// Custom is a free-form metadata bag keyed by arbitrary string fields,
// alongside a handful of well-known optional provenance strings.
type Custom struct {
	CreatedAt   *string
	Software    *string
	Author      *string
	Description *string
	Fields      map[string]Value
}

// NewCustom returns an empty bag with no provenance fields set; unlike the
// original source this does not stamp a creation timestamp, since
// Date.Now()-style wall-clock reads don't belong in a deterministic codec
// library — callers set CreatedAt themselves if they want one.
func NewCustom() Custom {
	return Custom{Fields: make(map[string]Value)}
}

func (c *Custom) Set(key string, value Value) {
	if c.Fields == nil {
		c.Fields = make(map[string]Value)
	}
	c.Fields[key] = value
}

func (c Custom) Get(key string) (Value, bool) {
	v, ok := c.Fields[key]
	return v, ok
}

func (c Custom) GetString(key string) (string, bool) {
	v, ok := c.Fields[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (c Custom) GetInt(key string) (int64, bool) {
	v, ok := c.Fields[key]
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

func (c Custom) GetFloat(key string) (float64, bool) {
	v, ok := c.Fields[key]
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

func (c Custom) GetBool(key string) (bool, bool) {
	v, ok := c.Fields[key]
	if !ok {
		return false, false
	}
	return v.AsBool()
}

func (c *Custom) Remove(key string) (Value, bool) {
	v, ok := c.Fields[key]
	if ok {
		delete(c.Fields, key)
	}
	return v, ok
}

func (c Custom) ContainsKey(key string) bool {
	_, ok := c.Fields[key]
	return ok
}

func (c Custom) Keys() []string {
	keys := make([]string, 0, len(c.Fields))
	for k := range c.Fields {
		keys = append(keys, k)
	}
	return keys
}

// MarshalBinary encodes the bag as an opaque chunk payload.
func (c Custom) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.optStr(c.CreatedAt)
	w.optStr(c.Software)
	w.optStr(c.Author)
	w.optStr(c.Description)
	w.u32(uint32(len(c.Fields)))
	for k, v := range c.Fields {
		w.str(k)
		v.marshal(w)
	}
	return w.buf, nil
}

// UnmarshalBinary decodes a payload produced by MarshalBinary.
func (c *Custom) UnmarshalBinary(data []byte) error {
	r := newReader(data)
	var out Custom
	var err error

	if out.CreatedAt, err = r.optStr(); err != nil {
		return err
	}
	if out.Software, err = r.optStr(); err != nil {
		return err
	}
	if out.Author, err = r.optStr(); err != nil {
		return err
	}
	if out.Description, err = r.optStr(); err != nil {
		return err
	}

	n, err := r.u32()
	if err != nil {
		return err
	}
	out.Fields = make(map[string]Value, n)
	for i := uint32(0); i < n; i++ {
		k, err := r.str()
		if err != nil {
			return err
		}
		v, err := unmarshalValue(r)
		if err != nil {
			return err
		}
		out.Fields[k] = v
	}

	*c = out
	return nil
}
