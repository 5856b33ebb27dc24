package backend

import "fmt"

// TextureFormat is an abstract texture storage or wire format.
type TextureFormat uint8

// Texture formats.
const (
	FormatUnknown TextureFormat = iota

	// Uncompressed colour formats.
	FormatR8
	FormatR16F
	FormatR32F
	FormatR32I
	FormatR32UI
	FormatRG8
	FormatRG16F
	FormatRG32F
	FormatRGB8
	FormatRGBA8
	FormatSRGB8
	FormatSRGB8A8
	FormatRGB565
	FormatRGBA5551
	FormatRGBA4
	FormatRGB16F
	FormatRGBA16F
	FormatRGB32F
	FormatRGBA32F
	FormatRGBA32UI
	FormatR11G11B10
	FormatRGB9E5
	FormatRGB10A2

	// Deprecated single and dual channel formats. Core contexts store them
	// as R8/RG8 with a swizzle.
	FormatAlpha8
	FormatLuminance8
	FormatLuminanceAlpha8

	// Compressed formats.
	FormatRGBDXT1
	FormatRGBADXT1
	FormatRGBADXT3
	FormatRGBADXT5
	FormatRGB8ETC1
	FormatRGB8ETC2
	FormatRGBA8ETC2EAC
	FormatRGBABPTC

	// Depth and stencil formats.
	FormatDepth16
	FormatDepth24
	FormatDepth32
	FormatDepth32F
	FormatDepth24Stencil8
	FormatDepth32FStencil8
	FormatStencil8

	formatCount
)

var formatNames = [...]string{
	FormatUnknown:          "Unknown",
	FormatR8:               "R8",
	FormatR16F:             "R16F",
	FormatR32F:             "R32F",
	FormatR32I:             "R32I",
	FormatR32UI:            "R32UI",
	FormatRG8:              "RG8",
	FormatRG16F:            "RG16F",
	FormatRG32F:            "RG32F",
	FormatRGB8:             "RGB8",
	FormatRGBA8:            "RGBA8",
	FormatSRGB8:            "SRGB8",
	FormatSRGB8A8:          "SRGB8A8",
	FormatRGB565:           "RGB565",
	FormatRGBA5551:         "RGBA5551",
	FormatRGBA4:            "RGBA4",
	FormatRGB16F:           "RGB16F",
	FormatRGBA16F:          "RGBA16F",
	FormatRGB32F:           "RGB32F",
	FormatRGBA32F:          "RGBA32F",
	FormatRGBA32UI:         "RGBA32UI",
	FormatR11G11B10:        "R11G11B10",
	FormatRGB9E5:           "RGB9E5",
	FormatRGB10A2:          "RGB10A2",
	FormatAlpha8:           "Alpha8",
	FormatLuminance8:       "Luminance8",
	FormatLuminanceAlpha8:  "LuminanceAlpha8",
	FormatRGBDXT1:          "RGB_DXT1",
	FormatRGBADXT1:         "RGBA_DXT1",
	FormatRGBADXT3:         "RGBA_DXT3",
	FormatRGBADXT5:         "RGBA_DXT5",
	FormatRGB8ETC1:         "RGB8_ETC1",
	FormatRGB8ETC2:         "RGB8_ETC2",
	FormatRGBA8ETC2EAC:     "RGBA8_ETC2_EAC",
	FormatRGBABPTC:         "RGBA_BPTC",
	FormatDepth16:          "Depth16",
	FormatDepth24:          "Depth24",
	FormatDepth32:          "Depth32",
	FormatDepth32F:         "Depth32F",
	FormatDepth24Stencil8:  "Depth24Stencil8",
	FormatDepth32FStencil8: "Depth32FStencil8",
	FormatStencil8:         "Stencil8",
}

// String returns the format name.
func (f TextureFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("TextureFormat(%d)", uint8(f))
}

// AllFormats returns every known format except FormatUnknown.
func AllFormats() []TextureFormat {
	out := make([]TextureFormat, 0, formatCount-1)
	for f := FormatUnknown + 1; f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}

// IsCompressed reports whether f is a block-compressed format.
func (f TextureFormat) IsCompressed() bool {
	return f >= FormatRGBDXT1 && f <= FormatRGBABPTC
}

// IsDepth reports whether f is a depth and/or stencil format.
func (f TextureFormat) IsDepth() bool {
	return f >= FormatDepth16 && f <= FormatStencil8
}

// IsUncompressed reports whether f is a plain colour format.
// IsCompressed, IsDepth and IsUncompressed are mutually exclusive and
// exactly one holds for every format except FormatUnknown.
func (f TextureFormat) IsUncompressed() bool {
	return f >= FormatR8 && f <= FormatLuminanceAlpha8
}

// HasStencil reports whether f carries a stencil component.
func (f TextureFormat) HasStencil() bool {
	return f == FormatDepth24Stencil8 || f == FormatDepth32FStencil8 || f == FormatStencil8
}

// IsDeprecated reports whether f is an alpha/luminance format that core
// contexts emulate through a swizzle.
func (f TextureFormat) IsDeprecated() bool {
	return f == FormatAlpha8 || f == FormatLuminance8 || f == FormatLuminanceAlpha8
}

// IsFloat reports whether f stores floating point colour.
func (f TextureFormat) IsFloat() bool {
	switch f {
	case FormatR16F, FormatR32F, FormatRG16F, FormatRG32F, FormatRGB16F, FormatRGBA16F,
		FormatRGB32F, FormatRGBA32F, FormatR11G11B10, FormatRGB9E5:
		return true
	}
	return false
}

// BytesPerPixel returns the storage size of one pixel for uncompressed and
// depth formats and 0 for compressed formats.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatR8, FormatAlpha8, FormatLuminance8, FormatStencil8:
		return 1
	case FormatRG8, FormatR16F, FormatRGB565, FormatRGBA5551, FormatRGBA4, FormatLuminanceAlpha8,
		FormatDepth16:
		return 2
	case FormatRGB8, FormatSRGB8, FormatDepth24:
		return 3
	case FormatRGBA8, FormatSRGB8A8, FormatR32F, FormatR32I, FormatR32UI, FormatRG16F,
		FormatR11G11B10, FormatRGB9E5, FormatRGB10A2, FormatDepth32, FormatDepth32F,
		FormatDepth24Stencil8:
		return 4
	case FormatRGB16F:
		return 6
	case FormatRGBA16F, FormatRG32F, FormatDepth32FStencil8:
		return 8
	case FormatRGB32F:
		return 12
	case FormatRGBA32F, FormatRGBA32UI:
		return 16
	}
	return 0
}

// BlockSize returns the byte size of one 4x4 block of a compressed format
// and 0 for other formats.
func (f TextureFormat) BlockSize() int {
	switch f {
	case FormatRGBDXT1, FormatRGBADXT1, FormatRGB8ETC1, FormatRGB8ETC2:
		return 8
	case FormatRGBADXT3, FormatRGBADXT5, FormatRGBA8ETC2EAC, FormatRGBABPTC:
		return 16
	}
	return 0
}

// ImageSize returns the byte size of a width x height image in format f.
func (f TextureFormat) ImageSize(width, height int) int {
	if bs := f.BlockSize(); bs > 0 {
		return ((width + 3) / 4) * ((height + 3) / 4) * bs
	}
	return width * height * f.BytesPerPixel()
}

// SwizzleMode describes how a deprecated format is emulated on a core
// context.
type SwizzleMode uint8

const (
	// NoSwizzle means the format is stored as requested.
	NoSwizzle SwizzleMode = iota
	// L8ToR8 stores luminance in R and reads it as (r, r, r, 1).
	L8ToR8
	// A8ToR8 stores alpha in R and reads it as (0, 0, 0, r).
	A8ToR8
	// L8A8ToRG8 stores luminance-alpha in RG and reads it as (r, r, r, g).
	L8A8ToRG8
)

// substituteDeprecated maps a deprecated format to its core replacement
// and the swizzle needed to read it back.
func substituteDeprecated(t ContextType, f TextureFormat) (TextureFormat, SwizzleMode) {
	if t.IsLegacy() || !f.IsDeprecated() {
		return f, NoSwizzle
	}
	switch f {
	case FormatLuminance8:
		return FormatR8, L8ToR8
	case FormatAlpha8:
		return FormatR8, A8ToR8
	default:
		return FormatRG8, L8A8ToRG8
	}
}
