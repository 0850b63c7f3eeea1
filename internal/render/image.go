package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bdougie/handpreview/internal/hand"
)

var (
	frameBackground = color.RGBA{16, 18, 24, 255}
	boneColor       = color.RGBA{180, 200, 255, 255}
	jointColor      = color.RGBA{255, 214, 102, 255}
	rootColor       = color.RGBA{255, 120, 90, 255}
	hudColor        = color.RGBA{200, 200, 200, 255}
)

// projection maps solved display coordinates onto a pixel grid.
type projection struct {
	minX, minY float64
	scale      float64
	offX, offY float64
	height     int
}

// fitProjection computes a projection that fits every frame of the
// sequence into width×height with a margin, so playback does not
// jitter as the hand moves.
func fitProjection(frames []hand.Frame, width, height int) projection {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, frame := range frames {
		for _, marker := range hand.SolveJoints(frame) {
			minX = math.Min(minX, marker.Position.X())
			maxX = math.Max(maxX, marker.Position.X())
			minY = math.Min(minY, marker.Position.Y())
			maxY = math.Max(maxY, marker.Position.Y())
		}
	}

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	margin := 0.1
	scale := math.Min(
		float64(width)*(1-2*margin)/spanX,
		float64(height)*(1-2*margin)/spanY,
	)

	return projection{
		minX:   minX,
		minY:   minY,
		scale:  scale,
		offX:   (float64(width) - spanX*scale) / 2,
		offY:   (float64(height) - spanY*scale) / 2,
		height: height,
	}
}

// point projects a display-space position to pixel coordinates. Image
// Y grows downward, so the vertical axis inverts here.
func (p projection) point(x, y float64) (int, int) {
	px := (x-p.minX)*p.scale + p.offX
	py := (y-p.minY)*p.scale + p.offY
	return int(px), p.height - 1 - int(py)
}

// ExportFrames rasterizes the skeleton of every frame to a PNG
// sequence under outDir and returns the written paths.
func ExportFrames(frames []hand.Frame, outDir string, width, height int) ([]string, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to export")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory '%s': %v", outDir, err)
	}

	proj := fitProjection(frames, width, height)

	paths := make([]string, 0, len(frames))
	for i, frame := range frames {
		img := drawFrame(frame, proj, width, height, fmt.Sprintf("frame %d/%d", i+1, len(frames)))
		path := filepath.Join(outDir, fmt.Sprintf("frame_%04d.png", i+1))
		if err := savePNG(path, img); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// drawFrame renders one frame's bones and joint markers plus a HUD
// label into a fresh image.
func drawFrame(frame hand.Frame, proj projection, width, height int, hud string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, frameBackground)
		}
	}

	markers := hand.SolveJoints(frame)
	for _, bone := range hand.SolveBones(frame, 0) {
		x1, y1 := proj.point(markers[bone.Parent].Position.X(), markers[bone.Parent].Position.Y())
		x2, y2 := proj.point(markers[bone.Child].Position.X(), markers[bone.Child].Position.Y())
		drawLine(img, x1, y1, x2, y2, boneColor)
	}

	for _, marker := range markers {
		x, y := proj.point(marker.Position.X(), marker.Position.Y())
		c := jointColor
		r := 2
		if marker.Root {
			c = rootColor
			r = 4
		}
		drawDisc(img, x, y, r, c)
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(hudColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, height-8),
	}
	drawer.DrawString(hud)

	return img
}

// drawLine draws a 1px line by stepping the longer axis.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.SetRGBA(x1, y1, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		if image.Pt(x, y).In(img.Rect) {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawDisc fills a small circle around (cx, cy).
func drawDisc(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius && image.Pt(x, y).In(img.Rect) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func savePNG(path string, img *image.RGBA) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame file '%s': %v", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode frame '%s': %v", path, err)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
