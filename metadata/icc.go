package metadata

// ColorSpace identifies the working color space an ICC profile describes.
type ColorSpace uint8

const (
	ColorSpaceSRGB ColorSpace = iota
	ColorSpaceAdobeRGB
	ColorSpaceProPhotoRGB
	ColorSpaceDisplayP3
	ColorSpaceRec709
	ColorSpaceRec2020
	ColorSpaceCMYK
	ColorSpaceGrayscale
	ColorSpaceLab
	ColorSpaceCustom
)

// RenderingIntent is the ICC rendering intent used to map out-of-gamut colors.
type RenderingIntent uint8

const (
	RenderingIntentPerceptual RenderingIntent = iota
	RenderingIntentRelativeColorimetric
	RenderingIntentSaturation
	RenderingIntentAbsoluteColorimetric
)

// IccProfile is a color profile sidecar: either a named, well-known space
// or an embedded raw ICC byte stream.
type IccProfile struct {
	ColorSpace      ColorSpace
	RenderingIntent RenderingIntent
	ProfileName     string
	Description     string
	RawData         []byte // nil when no embedded profile bytes are carried
}

// SRGB returns the standard sRGB profile.
func SRGB() IccProfile {
	return IccProfile{
		ColorSpace:      ColorSpaceSRGB,
		RenderingIntent: RenderingIntentPerceptual,
		ProfileName:     "sRGB IEC61966-2.1",
		Description:     "sRGB color space profile",
	}
}

// AdobeRGB returns the Adobe RGB (1998) profile.
func AdobeRGB() IccProfile {
	return IccProfile{
		ColorSpace:      ColorSpaceAdobeRGB,
		RenderingIntent: RenderingIntentRelativeColorimetric,
		ProfileName:     "Adobe RGB (1998)",
		Description:     "Adobe RGB color space profile",
	}
}

// DisplayP3 returns the Apple Display P3 profile.
func DisplayP3() IccProfile {
	return IccProfile{
		ColorSpace:      ColorSpaceDisplayP3,
		RenderingIntent: RenderingIntentPerceptual,
		ProfileName:     "Display P3",
		Description:     "Apple Display P3 color space",
	}
}

// ProPhotoRGB returns the ProPhoto RGB wide-gamut profile.
func ProPhotoRGB() IccProfile {
	return IccProfile{
		ColorSpace:      ColorSpaceProPhotoRGB,
		RenderingIntent: RenderingIntentRelativeColorimetric,
		ProfileName:     "ProPhoto RGB",
		Description:     "ProPhoto RGB color space for wide gamut",
	}
}

// Rec2020 returns the ITU-R BT.2020 HDR profile.
func Rec2020() IccProfile {
	return IccProfile{
		ColorSpace:      ColorSpaceRec2020,
		RenderingIntent: RenderingIntentPerceptual,
		ProfileName:     "ITU-R BT.2020",
		Description:     "Rec. 2020 HDR color space",
	}
}

// FromRaw wraps an embedded ICC profile whose color space isn't one of the
// named presets above.
func FromRaw(data []byte) IccProfile {
	return IccProfile{
		ColorSpace:      ColorSpaceCustom,
		RenderingIntent: RenderingIntentPerceptual,
		ProfileName:     "Custom ICC Profile",
		Description:     "Embedded ICC profile",
		RawData:         data,
	}
}

// IsWideGamut reports whether the profile's color space exceeds sRGB's
// gamut.
func (p IccProfile) IsWideGamut() bool {
	switch p.ColorSpace {
	case ColorSpaceAdobeRGB, ColorSpaceProPhotoRGB, ColorSpaceDisplayP3, ColorSpaceRec2020:
		return true
	default:
		return false
	}
}

// IsHDR reports whether the profile targets an HDR-capable color space.
func (p IccProfile) IsHDR() bool {
	return p.ColorSpace == ColorSpaceRec2020
}

// MarshalBinary encodes the profile as an opaque chunk payload.
func (p IccProfile) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.u8(uint8(p.ColorSpace))
	w.u8(uint8(p.RenderingIntent))
	w.str(p.ProfileName)
	w.str(p.Description)
	w.bool(p.RawData != nil)
	if p.RawData != nil {
		w.bytes(p.RawData)
	}
	return w.buf, nil
}

// UnmarshalBinary decodes a payload produced by MarshalBinary.
func (p *IccProfile) UnmarshalBinary(data []byte) error {
	r := newReader(data)
	cs, err := r.u8()
	if err != nil {
		return err
	}
	intent, err := r.u8()
	if err != nil {
		return err
	}
	name, err := r.str()
	if err != nil {
		return err
	}
	desc, err := r.str()
	if err != nil {
		return err
	}
	hasRaw, err := r.boolean()
	if err != nil {
		return err
	}
	var raw []byte
	if hasRaw {
		raw, err = r.bytes()
		if err != nil {
			return err
		}
	}
	p.ColorSpace = ColorSpace(cs)
	p.RenderingIntent = RenderingIntent(intent)
	p.ProfileName = name
	p.Description = desc
	p.RawData = raw
	return nil
}
