package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	return img
}

func rgba(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestApply(t *testing.T) {
	frame := blank(100, 100)
	out := Apply(frame, []Mark{{X: 50, Y: 50, Kind: "username"}})

	blue := ColorFor("username")
	assert.Equal(t, blue, rgba(out, 50, 50), "center cross")
	assert.Equal(t, blue, rgba(out, 50+RingRadius, 50), "ring")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(out, 5, 5))

	// source untouched
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(frame, 50, 50))
}

func TestApply_SkipsUnpositionedAndClipsEdges(t *testing.T) {
	frame := blank(20, 20)
	out := Apply(frame, []Mark{{Kind: "password"}, {X: 19, Y: 19, Kind: "submit"}})

	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(out, 0, 0))
	assert.Equal(t, ColorFor("submit"), rgba(out, 19, 19))
}

func TestColorFor(t *testing.T) {
	assert.NotEqual(t, ColorFor("username"), ColorFor("password"))
	assert.Equal(t, defaultColor, ColorFor("captcha"))
}
