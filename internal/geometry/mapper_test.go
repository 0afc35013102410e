package geometry

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-6

func relClose(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1 {
		return diff <= tolerance
	}
	return diff/scale <= tolerance
}

func TestPointRoundTrip(t *testing.T) {
	vp := Viewport{CanvasWidth: 900, CanvasHeight: 1200}
	page := PageSize{Width: 595.28, Height: 841.89}

	points := [][2]float64{
		{0, 0},
		{900, 1200},
		{450, 600},
		{12.5, 1187.25},
		{899.999, 0.001},
	}
	for _, p := range points {
		px, py, err := CanvasPointToPage(p[0], p[1], vp, page)
		if err != nil {
			t.Fatalf("forward (%v,%v): %v", p[0], p[1], err)
		}
		cx, cy, err := PagePointToCanvas(px, py, vp, page)
		if err != nil {
			t.Fatalf("inverse (%v,%v): %v", px, py, err)
		}
		if !relClose(cx, p[0]) || !relClose(cy, p[1]) {
			t.Errorf("round trip (%v,%v) -> (%v,%v)", p[0], p[1], cx, cy)
		}
	}
}

func TestYAxisFlip(t *testing.T) {
	vp := Viewport{CanvasWidth: 600, CanvasHeight: 800}
	page := PageSize{Width: 612, Height: 816}

	_, top, err := CanvasPointToPage(0, 0, vp, page)
	if err != nil {
		t.Fatal(err)
	}
	if !relClose(top, page.Height) {
		t.Errorf("canvas top mapped to %v, want page height %v", top, page.Height)
	}
	_, bottom, err := CanvasPointToPage(0, vp.CanvasHeight, vp, page)
	if err != nil {
		t.Fatal(err)
	}
	if !relClose(bottom, 0) {
		t.Errorf("canvas bottom mapped to %v, want 0", bottom)
	}
}

func TestRectAccountsForHeightBeforeFlip(t *testing.T) {
	// Canvas rendered 1:1 with the page, so coordinates carry over directly.
	vp := Viewport{CanvasWidth: 600, CanvasHeight: 800}
	page := PageSize{Width: 600, Height: 800}

	r, err := CanvasRectToPage(100, 200, 150, 60, vp, page)
	if err != nil {
		t.Fatal(err)
	}
	// Top-left at cy=200 with height 60 means the bottom edge sits at canvas
	// y=260, i.e. page y = 800-260 = 540.
	want := Rect{X: 100, Y: 540, Width: 150, Height: 60}
	if !relClose(r.X, want.X) || !relClose(r.Y, want.Y) || !relClose(r.Width, want.Width) || !relClose(r.Height, want.Height) {
		t.Errorf("got %+v want %+v", r, want)
	}
}

func TestRectRoundTrip(t *testing.T) {
	vp := Viewport{CanvasWidth: 893, CanvasHeight: 1263}
	page := PageSize{Width: 595.28, Height: 841.89}

	r, err := CanvasRectToPage(104.5, 987.25, 210, 80, vp, page)
	if err != nil {
		t.Fatal(err)
	}
	cx, cy, cw, ch, err := PageRectToCanvas(r, vp, page)
	if err != nil {
		t.Fatal(err)
	}
	if !relClose(cx, 104.5) || !relClose(cy, 987.25) || !relClose(cw, 210) || !relClose(ch, 80) {
		t.Errorf("round trip gave (%v,%v,%v,%v)", cx, cy, cw, ch)
	}
}

func TestNoClamping(t *testing.T) {
	vp := Viewport{CanvasWidth: 600, CanvasHeight: 800}
	page := PageSize{Width: 600, Height: 800}

	// A rectangle hanging off the bottom edge yields a negative page Y and
	// must pass through untouched.
	r, err := CanvasRectToPage(580, 790, 100, 40, vp, page)
	if err != nil {
		t.Fatal(err)
	}
	if r.Y >= 0 {
		t.Errorf("expected negative Y for off-page rect, got %v", r.Y)
	}
	if r.X != 580 {
		t.Errorf("X changed: %v", r.X)
	}
}

func TestInvalidViewport(t *testing.T) {
	cases := []struct {
		vp   Viewport
		page PageSize
	}{
		{Viewport{0, 800}, PageSize{612, 816}},
		{Viewport{600, 0}, PageSize{612, 816}},
		{Viewport{600, 800}, PageSize{0, 816}},
		{Viewport{-1, 800}, PageSize{612, 816}},
	}
	for _, c := range cases {
		if _, _, err := CanvasPointToPage(10, 10, c.vp, c.page); !errors.Is(err, ErrInvalidViewport) {
			t.Errorf("vp=%+v page=%+v: want ErrInvalidViewport, got %v", c.vp, c.page, err)
		}
		if _, err := CanvasRectToPage(10, 10, 5, 5, c.vp, c.page); !errors.Is(err, ErrInvalidViewport) {
			t.Errorf("rect vp=%+v: want ErrInvalidViewport, got %v", c.vp, err)
		}
	}
}
