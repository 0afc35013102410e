// Package geometry converts between the coordinate frame of a rendered,
// scaled canvas (origin top-left, pixels) and the native coordinate space of
// a PDF page (origin bottom-left, points at scale 1.0).
//
// The canvas is assumed uniformly scaled from the page's native width; the
// single scale factor is always derived from the actual rendered viewport,
// never from a fixed display constant.
package geometry

import "errors"

// ErrInvalidViewport is returned when a conversion would divide by a zero or
// negative dimension, e.g. before the canvas has rendered.
var ErrInvalidViewport = errors.New("invalid viewport dimensions")

// Rect is a placement rectangle in PDF page coordinates: X,Y locate the
// bottom-left corner, units are page points.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport holds the displayed pixel dimensions of the rendered canvas.
type Viewport struct {
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`
}

// PageSize holds a page's native dimensions at scale 1.0, in points.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func scaleFactor(vp Viewport, page PageSize) (float64, error) {
	if vp.CanvasWidth <= 0 || vp.CanvasHeight <= 0 || page.Width <= 0 {
		return 0, ErrInvalidViewport
	}
	return page.Width / vp.CanvasWidth, nil
}

// CanvasPointToPage maps a canvas-space point to page space, flipping the
// vertical axis. The result is not clamped to the page; clamping is caller
// policy.
func CanvasPointToPage(cx, cy float64, vp Viewport, page PageSize) (float64, float64, error) {
	s, err := scaleFactor(vp, page)
	if err != nil {
		return 0, 0, err
	}
	return cx * s, (vp.CanvasHeight - cy) * s, nil
}

// CanvasRectToPage maps a canvas-space rectangle, given by its top-left
// corner (cx, cy) and size (cw, ch), to a page-space Rect. The rectangle's
// vertical extent is accounted for before the axis flip, so the returned Y
// is the page-space position of the rectangle's bottom-left corner.
func CanvasRectToPage(cx, cy, cw, ch float64, vp Viewport, page PageSize) (Rect, error) {
	s, err := scaleFactor(vp, page)
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		X:      cx * s,
		Y:      (vp.CanvasHeight - cy - ch) * s,
		Width:  cw * s,
		Height: ch * s,
	}, nil
}

// PagePointToCanvas is the exact inverse of CanvasPointToPage.
func PagePointToCanvas(px, py float64, vp Viewport, page PageSize) (float64, float64, error) {
	s, err := scaleFactor(vp, page)
	if err != nil {
		return 0, 0, err
	}
	return px / s, vp.CanvasHeight - py/s, nil
}

// PageRectToCanvas is the exact inverse of CanvasRectToPage, returning the
// canvas-space top-left corner and size of the rectangle.
func PageRectToCanvas(r Rect, vp Viewport, page PageSize) (cx, cy, cw, ch float64, err error) {
	s, err := scaleFactor(vp, page)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	cw = r.Width / s
	ch = r.Height / s
	cx = r.X / s
	cy = vp.CanvasHeight - r.Y/s - ch
	return cx, cy, cw, ch, nil
}
