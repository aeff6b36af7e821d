package utils

import (
	"fmt"
	"image"
	"image/color"
	"net/http"

	color_extractor "github.com/marekm4/color-extractor"

	_ "image/jpeg"
	_ "image/png"
)

// FetchAccentColour downloads a piece of artwork and boils it down to a
// single hex colour for UI theming. Muted tones win over vibrant ones as
// the colour sits behind white text.
func FetchAccentColour(client *http.Client, imageUrl string) (string, error) {
	req, err := http.NewRequest("GET", imageUrl, nil)
	if err != nil {
		return "", err
	}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching artwork returned %s", res.Status)
	}

	img, _, err := image.Decode(res.Body)
	if err != nil {
		return "", err
	}

	colours := color_extractor.ExtractColors(img)
	if len(colours) == 0 {
		return "", fmt.Errorf("no colours could be extracted from %s", imageUrl)
	}

	return colorToHexString(pickAccentColour(colours)), nil
}

// pickAccentColour walks the palette in dominance order and returns the
// first muted tone. If the artwork has no muted tone at all, the most
// dominant colour is as good a pick as any.
func pickAccentColour(colours []color.Color) color.Color {
	for _, c := range colours {
		if isMuted(c) {
			return c
		}
	}
	return colours[0]
}

// isMuted reports whether a colour reads as a muted tone: some saturation
// but not neon, and neither blown out nor near black.
func isMuted(c color.Color) bool {
	s, v := saturationValue(c)
	return s >= 0.1 && s <= 0.65 && v >= 0.2 && v <= 0.85
}

func saturationValue(c color.Color) (float64, float64) {
	r, g, b, _ := c.RGBA()
	rf := float64(r) / 0xffff
	gf := float64(g) / 0xffff
	bf := float64(b) / 0xffff

	max := rf
	if gf > max {
		max = gf
	}
	if bf > max {
		max = bf
	}
	min := rf
	if gf < min {
		min = gf
	}
	if bf < min {
		min = bf
	}

	if max == 0 {
		return 0, 0
	}
	return (max - min) / max, max
}

func colorToHexString(c color.Color) string {
	r, g, b, a := c.RGBA()
	rgba := color.RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}
	return fmt.Sprintf("#%.2x%.2x%.2x", rgba.R, rgba.G, rgba.B)
}
