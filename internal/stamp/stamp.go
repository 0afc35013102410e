// Package stamp composites a raster signature onto one page of a PDF,
// producing a new document. Placement rectangles are expected in the page's
// native coordinate space (bottom-left origin, points); no coordinate
// transformation happens here.
package stamp

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	xdraw "golang.org/x/image/draw"

	"parapheur/internal/geometry"
)

// Stamper applies signature images and calibration markers to PDF pages.
type Stamper struct {
	conf *model.Configuration
}

func New() *Stamper {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Stamper{conf: conf}
}

// Inspect parses the document and returns its page count and per-page native
// dimensions at scale 1.0.
func (s *Stamper) Inspect(source []byte) (int, []geometry.PageSize, error) {
	ctx, err := s.readContext(source)
	if err != nil {
		return 0, nil, err
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	sizes := make([]geometry.PageSize, len(dims))
	for i, d := range dims {
		sizes[i] = geometry.PageSize{Width: d.Width, Height: d.Height}
	}
	return ctx.PageCount, sizes, nil
}

// Stamp draws image (a PNG with alpha, so only the signature strokes cover
// the page) onto the zero-based page at rect. The source bytes are never
// mutated; a fully new document is returned. Content extending past the page
// boundary is clipped by the page box, which is never expanded.
func (s *Stamper) Stamp(source []byte, page int, rect geometry.Rect, imageData []byte) ([]byte, error) {
	img, err := decodeSignature(imageData)
	if err != nil {
		return nil, err
	}
	return s.apply(source, page, rect, img)
}

// StampOutline is the calibration variant: instead of a signature it draws a
// bordered, transparent rectangle at rect so coordinate mapping can be
// verified visually without capturing a signature.
func (s *Stamper) StampOutline(source []byte, page int, rect geometry.Rect) ([]byte, error) {
	return s.apply(source, page, rect, outlineImage(rect))
}

func (s *Stamper) apply(source []byte, page int, rect geometry.Rect, img image.Image) ([]byte, error) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return nil, fmt.Errorf("placement rectangle %gx%g has no area", rect.Width, rect.Height)
	}
	ctx, err := s.readContext(source)
	if err != nil {
		return nil, err
	}
	if page < 0 || page >= ctx.PageCount {
		return nil, &PageNotFoundError{Page: page, PageCount: ctx.PageCount}
	}

	// Watermarking appends operators to the target page's content stream.
	// When that stream is shared between pages the stamp would bleed into
	// every page referencing it, so the target page gets a private copy
	// first.
	doc := source
	isolated, err := isolatePageContents(ctx, page+1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if isolated {
		var norm bytes.Buffer
		if err := api.WriteContext(ctx, &norm); err != nil {
			return nil, fmt.Errorf("rewrite document: %w", err)
		}
		doc = norm.Bytes()
	}

	// Resample onto a transparent canvas matching the rectangle's point
	// dimensions. pdfcpu renders one image pixel per point at an absolute
	// scale of 1, so the stamp fills the rectangle exactly even when the
	// source aspect ratio differs.
	var buf bytes.Buffer
	if err := png.Encode(&buf, fitToRect(img, rect)); err != nil {
		return nil, fmt.Errorf("encode resampled signature: %w", err)
	}

	wm, err := api.ImageWatermarkForReader(bytes.NewReader(buf.Bytes()), watermarkDesc(rect), true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("build stamp: %w", err)
	}

	var out bytes.Buffer
	pages := []string{strconv.Itoa(page + 1)}
	if err := api.AddWatermarks(bytes.NewReader(doc), &out, pages, wm, s.conf); err != nil {
		return nil, fmt.Errorf("apply stamp to page %d: %w", page, err)
	}
	return out.Bytes(), nil
}

// watermarkDesc places the stamp's lower-left corner exactly at the
// rectangle's origin. Offsets keep their fractional points.
func watermarkDesc(rect geometry.Rect) string {
	return fmt.Sprintf("pos:bl, off:%.2f %.2f, scale:1 abs, rot:0", rect.X, rect.Y)
}

// isolatePageContents gives the 1-based page its own content stream objects
// when it shares any of them with another page. Reports whether the context
// was changed.
func isolatePageContents(ctx *model.Context, pageNr int) (bool, error) {
	pageDict, _, _, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return false, err
	}
	contents, found := pageDict.Find("Contents")
	if !found {
		return false, nil
	}

	others := map[int]bool{}
	for i := 1; i <= ctx.PageCount; i++ {
		if i == pageNr {
			continue
		}
		d, _, _, err := ctx.PageDict(i, false)
		if err != nil {
			return false, err
		}
		if o, ok := d.Find("Contents"); ok {
			for _, nr := range contentObjNrs(o) {
				others[nr] = true
			}
		}
	}
	shared := false
	for _, nr := range contentObjNrs(contents) {
		if others[nr] {
			shared = true
			break
		}
	}
	if !shared {
		return false, nil
	}

	switch o := contents.(type) {
	case types.IndirectRef:
		ref, err := cloneContentStream(ctx, o)
		if err != nil {
			return false, err
		}
		pageDict["Contents"] = *ref
	case types.Array:
		arr := make(types.Array, 0, len(o))
		for _, el := range o {
			ir, ok := el.(types.IndirectRef)
			if !ok {
				arr = append(arr, el)
				continue
			}
			ref, err := cloneContentStream(ctx, ir)
			if err != nil {
				return false, err
			}
			arr = append(arr, *ref)
		}
		pageDict["Contents"] = arr
	}
	return true, nil
}

func contentObjNrs(o types.Object) []int {
	switch o := o.(type) {
	case types.IndirectRef:
		return []int{o.ObjectNumber.Value()}
	case types.Array:
		var nrs []int
		for _, el := range o {
			if ir, ok := el.(types.IndirectRef); ok {
				nrs = append(nrs, ir.ObjectNumber.Value())
			}
		}
		return nrs
	}
	return nil
}

func cloneContentStream(ctx *model.Context, ref types.IndirectRef) (*types.IndirectRef, error) {
	sd, _, err := ctx.DereferenceStreamDict(ref)
	if err != nil {
		return nil, err
	}
	clone := *sd
	clone.Dict = sd.Dict.Clone().(types.Dict)
	clone.Raw = append([]byte(nil), sd.Raw...)
	if sd.Content != nil {
		clone.Content = append([]byte(nil), sd.Content...)
	}
	return ctx.IndRefForNewObject(clone)
}

func (s *Stamper) readContext(source []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(source), s.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return ctx, nil
}

// decodeSignature accepts only PNG input carrying an alpha channel. JPEG and
// opaque color models are rejected: without transparency the stamp would
// cover the page with a solid block instead of just the strokes.
func decodeSignature(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64:
		return img, nil
	default:
		return nil, fmt.Errorf("%w: image has no alpha channel", ErrInvalidImage)
	}
}

// fitToRect resamples img to the rectangle's rounded point dimensions on a
// transparent background, preserving the alpha channel.
func fitToRect(img image.Image, rect geometry.Rect) *image.NRGBA {
	w := int(math.Round(rect.Width))
	if w < 1 {
		w = 1
	}
	h := int(math.Round(rect.Height))
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// outlineImage renders the calibration marker: a transparent rectangle with
// an opaque red border.
func outlineImage(rect geometry.Rect) *image.NRGBA {
	w := int(math.Round(rect.Width))
	if w < 4 {
		w = 4
	}
	h := int(math.Round(rect.Height))
	if h < 4 {
		h = 4
	}
	const border = 2
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < border || x >= w-border || y < border || y >= h-border {
				i := img.PixOffset(x, y)
				img.Pix[i] = 0xd6   // R
				img.Pix[i+1] = 0x20 // G
				img.Pix[i+2] = 0x20 // B
				img.Pix[i+3] = 0xff // A
			}
		}
	}
	return img
}
