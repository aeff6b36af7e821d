package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetchAccentColour(t *testing.T) {
	defer gock.Off()

	gock.New("https://example.com").
		Get("/cover.png").
		Reply(200).
		Body(bytes.NewReader(solidPNG(t, color.RGBA{R: 100, G: 120, B: 140, A: 255})))

	colour, err := FetchAccentColour(&http.Client{}, "https://example.com/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "#64788c", colour)
}

func TestFetchAccentColour_BadStatus(t *testing.T) {
	defer gock.Off()

	gock.New("https://example.com").
		Get("/cover.png").
		Reply(404)

	_, err := FetchAccentColour(&http.Client{}, "https://example.com/cover.png")
	assert.Error(t, err)
}

func TestFetchAccentColour_NotAnImage(t *testing.T) {
	defer gock.Off()

	gock.New("https://example.com").
		Get("/cover.png").
		Reply(200).
		BodyString("<html>definitely not pixels</html>")

	_, err := FetchAccentColour(&http.Client{}, "https://example.com/cover.png")
	assert.Error(t, err)
}

func TestPickAccentColour_PrefersMutedOverVibrant(t *testing.T) {
	vibrant := color.RGBA{R: 255, G: 0, B: 0, A: 255}
	muted := color.RGBA{R: 100, G: 120, B: 140, A: 255}

	picked := pickAccentColour([]color.Color{vibrant, muted})
	assert.Equal(t, muted, picked)
}

func TestPickAccentColour_FallsBackToDominant(t *testing.T) {
	vibrant := color.RGBA{R: 255, G: 0, B: 0, A: 255}
	alsoVibrant := color.RGBA{R: 0, G: 255, B: 0, A: 255}

	picked := pickAccentColour([]color.Color{vibrant, alsoVibrant})
	assert.Equal(t, vibrant, picked)
}

func TestIsMuted(t *testing.T) {
	tests := []struct {
		name     string
		colour   color.RGBA
		expected bool
	}{
		{name: "slate blue", colour: color.RGBA{R: 100, G: 120, B: 140, A: 255}, expected: true},
		{name: "pure red", colour: color.RGBA{R: 255, G: 0, B: 0, A: 255}, expected: false},
		{name: "near black", colour: color.RGBA{R: 10, G: 10, B: 12, A: 255}, expected: false},
		{name: "near white", colour: color.RGBA{R: 250, G: 250, B: 250, A: 255}, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isMuted(tc.colour))
		})
	}
}

func TestColorToHexString(t *testing.T) {
	assert.Equal(t, "#64788c", colorToHexString(color.RGBA{R: 100, G: 120, B: 140, A: 255}))
	assert.Equal(t, "#000000", colorToHexString(color.RGBA{A: 255}))
	assert.Equal(t, "#ffffff", colorToHexString(color.RGBA{R: 255, G: 255, B: 255, A: 255}))
}
