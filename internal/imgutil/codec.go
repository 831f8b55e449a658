package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
)

// DecodeToRaster decodes a PNG or BMP image from r into row-major RGBA
// bytes, generalized from the teacher's format-switch in
// image.go:encodeImg (which dispatched on file extension) to dispatch
// on the decoded image's concrete type instead, since a library caller
// supplies bytes, not a path.
func DecodeToRaster(r io.Reader) (pix []uint8, w, h int, err error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("could not decode image: %w", err)
	}
	return ToNRGBAPix(img)
}

// ToNRGBAPix converts any image.Image to row-major RGBA bytes with the
// origin translated to (0,0), grounded on image.go:imgToNRGBA.
func ToNRGBAPix(img image.Image) (pix []uint8, w, h int, err error) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	pix = make([]uint8, w*h*4)

	if src, ok := img.(*image.NRGBA); ok && b.Min.X == 0 && b.Min.Y == 0 {
		copy(pix, src.Pix[:w*h*4])
		return pix, w, h, nil
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix[i] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
			i += 4
		}
	}
	return pix, w, h, nil
}

// EncodePNG writes a row-major RGBA raster as a PNG, e.g. to inspect
// intermediate rasters (gray maps, masks) during development.
func EncodePNG(w io.Writer, pix []uint8, width, height int) error {
	img := &image.NRGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	return png.Encode(w, img)
}

// EncodeBMP writes a row-major RGBA raster as a BMP, grounded on
// image.go:encodeImg's ".bmp" case (golang.org/x/image/bmp.Encode).
func EncodeBMP(w io.Writer, pix []uint8, width, height int) error {
	img := &image.NRGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	return bmp.Encode(w, img)
}

// GrayToPNGBytes renders a GrayMap as a standalone PNG byte slice, a
// convenience for eyeballing intermediate preprocessing stages without
// hand-rolling an image.Image each time.
func GrayToPNGBytes(g *GrayMap) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, g.W, g.H))
	copy(img.Pix, g.Pix)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
