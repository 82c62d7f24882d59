package lighting

import (
	"fmt"

	"github.com/okian/lightshow/internal/domain/color"
)

// Palette holds the four base colors.
type Palette struct {
	Blue      color.Color
	Red       color.Color
	BlueBoost color.Color
	RedBoost  color.Color
}

// DefaultPalette is the stock environment palette.
func DefaultPalette() Palette {
	return Palette{
		Blue:      color.RGBA(0, 0.282353, 1, 1),
		Red:       color.RGBA(1, 0, 0, 1),
		BlueBoost: color.RGBA(0.188235, 0.552941, 1, 1),
		RedBoost:  color.RGBA(1, 0.25098, 0.25098, 1),
	}
}

// ParsePalette builds a palette from hex strings.
func ParsePalette(blue, red, blueBoost, redBoost string) (Palette, error) {
	var p Palette
	for _, f := range []struct {
		name string
		hex  string
		dst  *color.Color
	}{
		{"blue", blue, &p.Blue},
		{"red", red, &p.Red},
		{"blue_boost", blueBoost, &p.BlueBoost},
		{"red_boost", redBoost, &p.RedBoost},
	} {
		c, err := color.ParseHex(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("%w: %s: %v", ErrInvalidPalette, f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// Modifiers are the global toggles the resolver reads as a snapshot.
type Modifiers struct {
	SoloActive  bool
	SoloType    int
	BoostActive bool
}

// Emulation selects which custom data features are honoured.
type Emulation struct {
	LegacyColors      bool // packed values, explicit colors, gradients
	AdvancedTargeting bool // light and prop ids
}
