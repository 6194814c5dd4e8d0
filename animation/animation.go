// Package animation recognizes the THUM, ANIM, and FRMD chunk kinds.
// Full animation support — frame disposal, blending, motion estimation — is
// out of scope; a conforming decoder only needs to tell these chunks apart
// from metadata and image-data chunks so it can skip them without losing
// track of the stream.
package animation

import "github.com/cowoksoftspoken/wk/internal/container"

// Kind names one of the three animation-related chunk tags.
type Kind int

const (
	Thumbnail Kind = iota
	Animation
	FrameData
)

func (k Kind) String() string {
	switch k {
	case Thumbnail:
		return "THUM"
	case Animation:
		return "ANIM"
	case FrameData:
		return "FRMD"
	default:
		return "unknown"
	}
}

// Recognize reports whether t is one of the animation-related chunk types
// and, if so, which one. A decoder uses this to distinguish "chunk I'm
// intentionally skipping" from "chunk I don't understand at all" while
// walking a stream.
func Recognize(t container.ChunkType) (Kind, bool) {
	switch t {
	case container.TypeThumbnail:
		return Thumbnail, true
	case container.TypeAnimation:
		return Animation, true
	case container.TypeFrameData:
		return FrameData, true
	default:
		return 0, false
	}
}
