// Package overlay draws markers for located form fields onto screenshots.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// RingRadius is the radius of the ring drawn around a mark
const RingRadius = 15

// Mark is a point of interest on a frame, typically the center of a located field
type Mark struct {
	X, Y int
	Kind string
}

var kindColors = map[string]color.RGBA{
	"username": {66, 133, 244, 255}, // blue
	"password": {234, 67, 53, 255},  // red
	"submit":   {52, 168, 83, 255},  // green
}

var defaultColor = color.RGBA{251, 188, 5, 255}

// ColorFor returns the marker color for a field kind
func ColorFor(kind string) color.RGBA {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return defaultColor
}

// Apply returns a copy of frame with every mark drawn on it.
// The input frame is never modified.
func Apply(frame image.Image, marks []Mark) image.Image {
	bounds := frame.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, frame, bounds.Min, draw.Src)

	for _, m := range marks {
		// Skip marks that were never positioned
		if m.X == 0 && m.Y == 0 {
			continue
		}
		c := ColorFor(m.Kind)
		drawRing(result, m.X, m.Y, RingRadius, c)
		drawCross(result, m.X, m.Y, RingRadius/3, c)
	}
	return result
}

// drawRing draws a circle outline two pixels thick
func drawRing(img *image.RGBA, x, y, radius int, c color.RGBA) {
	for angle := 0.0; angle < 360; angle += 1 {
		rad := angle * math.Pi / 180
		px := x + int(math.Round(float64(radius)*math.Cos(rad)))
		py := y + int(math.Round(float64(radius)*math.Sin(rad)))
		setPixelSafe(img, px, py, c)
		setPixelSafe(img, px+1, py, c)
		setPixelSafe(img, px, py+1, c)
	}
}

func drawCross(img *image.RGBA, x, y, size int, c color.RGBA) {
	drawLine(img, x-size, y, x+size, y, c)
	drawLine(img, x, y-size, x, y+size, c)
}

// drawLine draws a line between two points using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		setPixelSafe(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func setPixelSafe(img *image.RGBA, x, y int, c color.RGBA) {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		img.Set(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
