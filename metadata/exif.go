package metadata

import "fmt"

// ExifTag identifies one of the recognized EXIF fields.
type ExifTag uint16

const (
	ExifMake ExifTag = iota
	ExifModel
	ExifSoftware
	ExifDateTime
	ExifDateTimeOriginal
	ExifExposureTime
	ExifFNumber
	ExifISOSpeedRatings
	ExifFocalLength
	ExifFocalLengthIn35mm
	ExifLensModel
	ExifArtist
	ExifCopyright
	ExifImageDescription
	ExifOrientation
	ExifXResolution
	ExifYResolution
	ExifGPSLatitude
	ExifGPSLongitude
	ExifGPSAltitude
	ExifImageWidth
	ExifImageHeight
	ExifWhiteBalance
	ExifFlash
	ExifMeteringMode
	ExifExposureProgram
	ExifExposureBiasValue
	ExifColorSpace
)

// valueKind tags an ExifValue's wire representation.
type valueKind uint8

const (
	valueKindString valueKind = iota
	valueKindInt
	valueKindUInt
	valueKindFloat
	valueKindRational
	valueKindSRational
	valueKindBytes
)

// ExifValue is a tagged union over the handful of representations EXIF
// tags carry: free text, signed/unsigned integers, floats, and rationals.
type ExifValue struct {
	kind      valueKind
	str       string
	i         int64
	u         uint64
	f         float64
	num, den  int64 // rational numerator/denominator (den >= 0 for unsigned rationals)
	bytes     []byte
}

func StringValue(v string) ExifValue { return ExifValue{kind: valueKindString, str: v} }
func IntValue(v int64) ExifValue     { return ExifValue{kind: valueKindInt, i: v} }
func UIntValue(v uint64) ExifValue   { return ExifValue{kind: valueKindUInt, u: v} }
func FloatValue(v float64) ExifValue { return ExifValue{kind: valueKindFloat, f: v} }

func RationalValue(numerator, denominator uint32) ExifValue {
	return ExifValue{kind: valueKindRational, num: int64(numerator), den: int64(denominator)}
}

func SRationalValue(numerator, denominator int32) ExifValue {
	return ExifValue{kind: valueKindSRational, num: int64(numerator), den: int64(denominator)}
}

func BytesValue(v []byte) ExifValue { return ExifValue{kind: valueKindBytes, bytes: v} }

// AsString returns the value's string form, if it holds one.
func (v ExifValue) AsString() (string, bool) {
	if v.kind == valueKindString {
		return v.str, true
	}
	return "", false
}

// AsInt returns the value as an int64, accepting both signed and unsigned
// integer representations.
func (v ExifValue) AsInt() (int64, bool) {
	switch v.kind {
	case valueKindInt:
		return v.i, true
	case valueKindUInt:
		return int64(v.u), true
	default:
		return 0, false
	}
}

// AsFloat returns the value as a float64, converting either rational form
// by division; a zero denominator fails the conversion rather than
// dividing by zero.
func (v ExifValue) AsFloat() (float64, bool) {
	switch v.kind {
	case valueKindFloat:
		return v.f, true
	case valueKindRational, valueKindSRational:
		if v.den == 0 {
			return 0, false
		}
		return float64(v.num) / float64(v.den), true
	default:
		return 0, false
	}
}

func (v ExifValue) marshal(w *writer) {
	w.u8(uint8(v.kind))
	switch v.kind {
	case valueKindString:
		w.str(v.str)
	case valueKindInt:
		w.i64(v.i)
	case valueKindUInt:
		w.u64(v.u)
	case valueKindFloat:
		w.f64(v.f)
	case valueKindRational, valueKindSRational:
		w.i64(v.num)
		w.i64(v.den)
	case valueKindBytes:
		w.bytes(v.bytes)
	}
}

func unmarshalExifValue(r *reader) (ExifValue, error) {
	kind, err := r.u8()
	if err != nil {
		return ExifValue{}, err
	}
	v := ExifValue{kind: valueKind(kind)}
	switch v.kind {
	case valueKindString:
		v.str, err = r.str()
	case valueKindInt:
		v.i, err = r.i64()
	case valueKindUInt:
		v.u, err = r.u64()
	case valueKindFloat:
		v.f, err = r.f64()
	case valueKindRational, valueKindSRational:
		if v.num, err = r.i64(); err != nil {
			return ExifValue{}, err
		}
		v.den, err = r.i64()
	case valueKindBytes:
		v.bytes, err = r.bytes()
	default:
		return ExifValue{}, fmt.Errorf("metadata: exif value: %w", ErrUnknownValueType)
	}
	if err != nil {
		return ExifValue{}, err
	}
	return v, nil
}

// ExifData holds a sparse set of EXIF tags.
type ExifData struct {
	Tags map[ExifTag]ExifValue
}

// NewExifData returns an empty tag set.
func NewExifData() ExifData {
	return ExifData{Tags: make(map[ExifTag]ExifValue)}
}

func (d *ExifData) Set(tag ExifTag, value ExifValue) {
	if d.Tags == nil {
		d.Tags = make(map[ExifTag]ExifValue)
	}
	d.Tags[tag] = value
}

func (d ExifData) Get(tag ExifTag) (ExifValue, bool) {
	v, ok := d.Tags[tag]
	return v, ok
}

func (d *ExifData) SetString(tag ExifTag, value string)  { d.Set(tag, StringValue(value)) }
func (d *ExifData) SetInt(tag ExifTag, value int64)      { d.Set(tag, IntValue(value)) }
func (d *ExifData) SetFloat(tag ExifTag, value float64)  { d.Set(tag, FloatValue(value)) }
func (d *ExifData) SetRational(tag ExifTag, numerator, denominator uint32) {
	d.Set(tag, RationalValue(numerator, denominator))
}

func (d ExifData) CameraMake() (string, bool) {
	v, ok := d.Get(ExifMake)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (d ExifData) CameraModel() (string, bool) {
	v, ok := d.Get(ExifModel)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (d ExifData) DateTime() (string, bool) {
	v, ok := d.Get(ExifDateTime)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (d ExifData) ISO() (int64, bool) {
	v, ok := d.Get(ExifISOSpeedRatings)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

func (d ExifData) FocalLength() (float64, bool) {
	v, ok := d.Get(ExifFocalLength)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

func (d ExifData) Aperture() (float64, bool) {
	v, ok := d.Get(ExifFNumber)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

func (d ExifData) ExposureTime() (float64, bool) {
	v, ok := d.Get(ExifExposureTime)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

func (d ExifData) GPSCoordinates() (lat, lon float64, ok bool) {
	latVal, ok := d.Get(ExifGPSLatitude)
	if !ok {
		return 0, 0, false
	}
	lat, ok = latVal.AsFloat()
	if !ok {
		return 0, 0, false
	}
	lonVal, ok := d.Get(ExifGPSLongitude)
	if !ok {
		return 0, 0, false
	}
	lon, ok = lonVal.AsFloat()
	return lat, lon, ok
}

func (d ExifData) Orientation() (int64, bool) {
	v, ok := d.Get(ExifOrientation)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

// MarshalBinary encodes the tag set as an opaque chunk payload.
func (d ExifData) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.u32(uint32(len(d.Tags)))
	for tag, val := range d.Tags {
		w.u32(uint32(tag))
		val.marshal(w)
	}
	return w.buf, nil
}

// UnmarshalBinary decodes a payload produced by MarshalBinary.
func (d *ExifData) UnmarshalBinary(data []byte) error {
	r := newReader(data)
	n, err := r.u32()
	if err != nil {
		return err
	}
	tags := make(map[ExifTag]ExifValue, n)
	for i := uint32(0); i < n; i++ {
		tagID, err := r.u32()
		if err != nil {
			return err
		}
		val, err := unmarshalExifValue(r)
		if err != nil {
			return err
		}
		tags[ExifTag(tagID)] = val
	}
	d.Tags = tags
	return nil
}

// ExifBuilder fluently assembles an ExifData.
type ExifBuilder struct {
	data ExifData
}

// NewExifBuilder starts a builder over an empty tag set.
func NewExifBuilder() *ExifBuilder {
	return &ExifBuilder{data: NewExifData()}
}

func (b *ExifBuilder) Make(v string) *ExifBuilder {
	b.data.SetString(ExifMake, v)
	return b
}

func (b *ExifBuilder) Model(v string) *ExifBuilder {
	b.data.SetString(ExifModel, v)
	return b
}

func (b *ExifBuilder) Software(v string) *ExifBuilder {
	b.data.SetString(ExifSoftware, v)
	return b
}

func (b *ExifBuilder) DateTime(v string) *ExifBuilder {
	b.data.SetString(ExifDateTime, v)
	return b
}

func (b *ExifBuilder) ISO(v int64) *ExifBuilder {
	b.data.SetInt(ExifISOSpeedRatings, v)
	return b
}
func (b *ExifBuilder) FocalLength(mm float64) *ExifBuilder {
	b.data.SetFloat(ExifFocalLength, mm)
	return b
}
func (b *ExifBuilder) Aperture(fNumber float64) *ExifBuilder {
	b.data.SetFloat(ExifFNumber, fNumber)
	return b
}
func (b *ExifBuilder) Exposure(seconds float64) *ExifBuilder {
	b.data.SetFloat(ExifExposureTime, seconds)
	return b
}
func (b *ExifBuilder) GPS(lat, lon float64) *ExifBuilder {
	b.data.SetFloat(ExifGPSLatitude, lat)
	b.data.SetFloat(ExifGPSLongitude, lon)
	return b
}
func (b *ExifBuilder) Artist(v string) *ExifBuilder {
	b.data.SetString(ExifArtist, v)
	return b
}

func (b *ExifBuilder) Copyright(v string) *ExifBuilder {
	b.data.SetString(ExifCopyright, v)
	return b
}
func (b *ExifBuilder) Description(v string) *ExifBuilder {
	b.data.SetString(ExifImageDescription, v)
	return b
}
func (b *ExifBuilder) Orientation(v int64) *ExifBuilder {
	b.data.SetInt(ExifOrientation, v)
	return b
}

// Build returns the assembled tag set.
func (b *ExifBuilder) Build() ExifData { return b.data }
