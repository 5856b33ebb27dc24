package resource

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/iostream"
)

// UploadOptions control image uploads.
type UploadOptions struct {
	// FlipY uploads the bottom row first, matching the GL texture origin.
	FlipY bool
	// MaxSize scales images whose larger side exceeds it. Zero uses the
	// backend's maximum texture size.
	MaxSize int
	// Mipmaps builds the mip chain after uploading.
	Mipmaps bool
}

// toRGBA converts img to tightly packed RGBA, scaling it to fit maxSize.
func toRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			w, h = maxSize, max(h*maxSize/w, 1)
		} else {
			w, h = max(w*maxSize/h, 1), maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*w && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func flipRows(pix []byte, stride, rows int) []byte {
	out := make([]byte, len(pix))
	for y := range rows {
		copy(out[y*stride:(y+1)*stride], pix[(rows-1-y)*stride:(rows-y)*stride])
	}
	return out
}

// UploadImage allocates an RGBA8 texture from the pool and fills it with
// img. It returns the null handle on failure.
func (m *Manager) UploadImage(img image.Image, opts UploadOptions) backend.TextureHandle {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = m.b.Limits().MaxTextureSize
	}
	rgba := toRGBA(img, maxSize)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if w == 0 || h == 0 {
		return backend.TextureHandle{}
	}
	tex := m.AllocateTexture2D(w, h, backend.FormatRGBA8, 1, false)
	if tex.IsNull() {
		return tex
	}
	pix := rgba.Pix
	if opts.FlipY {
		pix = flipRows(pix, rgba.Stride, h)
	}
	m.b.SetTextureSubData2D(tex, backend.Texture2D, 0, 0, 0, w, h, backend.FormatRGBA8, pix)
	if opts.Mipmaps {
		m.b.GenerateMipmaps(tex)
	}
	slogger().Debug("image uploaded", "texture", tex.String(), "width", w, "height", h)
	return tex
}

// LoadTexture decodes the image called name through f and uploads it.
// PNG, JPEG, BMP, TIFF and WebP are supported.
func (m *Manager) LoadTexture(f *iostream.Factory, name string, opts UploadOptions) (backend.TextureHandle, error) {
	r, err := f.Open(name)
	if err != nil {
		return backend.TextureHandle{}, err
	}
	defer r.Close()

	img, format, err := image.Decode(r)
	if err != nil {
		return backend.TextureHandle{}, fmt.Errorf("resource: decode %s: %w", name, err)
	}
	tex := m.UploadImage(img, opts)
	if tex.IsNull() {
		return tex, fmt.Errorf("%w: %s (%s)", ErrAllocationFailed, name, format)
	}
	return tex, nil
}
