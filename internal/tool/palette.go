package tool

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/voxlane-io/voxlane/pkg/protocol"
)

// PaletteTool generates color palettes derived from a base color.
type PaletteTool struct{}

func (t *PaletteTool) Name() string { return "color_palette" }
func (t *PaletteTool) Description() string {
	return "Generate a color palette (hex values) from a base color and a scheme"
}
func (t *PaletteTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"base_color": map[string]any{
				"type":        "string",
				"description": "Base color as a hex value, e.g. #3366cc",
			},
			"scheme": map[string]any{
				"type":        "string",
				"enum":        []string{"complementary", "analogous", "triadic", "shades"},
				"description": "Palette scheme (default complementary)",
			},
			"count": map[string]any{
				"type":        "integer",
				"description": "Number of colors for the shades scheme (default 5)",
			},
		},
		"required": []string{"base_color"},
	}
}
func (t *PaletteTool) RequiredCapabilities() []string { return nil }

func (t *PaletteTool) Execute(_ context.Context, params map[string]any) (protocol.ToolResult, error) {
	base := getString(params, "base_color")
	r, g, b, err := parseHexColor(base)
	if err != nil {
		return protocol.ErrorResultf("color_palette: %v", err), nil
	}

	scheme := getString(params, "scheme")
	if scheme == "" {
		scheme = "complementary"
	}

	h, s, l := rgbToHSL(r, g, b)

	var colors []string
	switch scheme {
	case "complementary":
		colors = []string{hslToHex(h, s, l), hslToHex(rotateHue(h, 180), s, l)}
	case "analogous":
		colors = []string{
			hslToHex(rotateHue(h, -30), s, l),
			hslToHex(h, s, l),
			hslToHex(rotateHue(h, 30), s, l),
		}
	case "triadic":
		colors = []string{
			hslToHex(h, s, l),
			hslToHex(rotateHue(h, 120), s, l),
			hslToHex(rotateHue(h, 240), s, l),
		}
	case "shades":
		count := getInt(params, "count", 5)
		if count < 2 {
			count = 2
		}
		if count > 12 {
			count = 12
		}
		for i := 0; i < count; i++ {
			// Spread lightness across [0.15, 0.85] around the base hue.
			li := 0.15 + 0.7*float64(i)/float64(count-1)
			colors = append(colors, hslToHex(h, s, li))
		}
	default:
		return protocol.ErrorResultf("color_palette: unknown scheme %q", scheme), nil
	}

	return protocol.SuccessResult(map[string]any{
		"base":   hslToHex(h, s, l),
		"scheme": scheme,
		"colors": colors,
	}), nil
}

func parseHexColor(s string) (r, g, b float64, err error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	var ri, gi, bi int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255, nil
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l // achromatic
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h *= 60
	return h, s, l
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := h / 360

	return hueToRGB(p, q, hk+1.0/3), hueToRGB(p, q, hk), hueToRGB(p, q, hk-1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func rotateHue(h, deg float64) float64 {
	return math.Mod(h+deg+360, 360)
}

func hslToHex(h, s, l float64) string {
	r, g, b := hslToRGB(h, s, l)
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(r*255)),
		int(math.Round(g*255)),
		int(math.Round(b*255)))
}
