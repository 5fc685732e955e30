package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/jo-hoe/appicon/internal/commandstructure"
	"github.com/jo-hoe/appicon/internal/common"
)

// DefaultFlattenBackground is used when no background is configured
const DefaultFlattenBackground = "#ffffff"

// FlattenParams represents typed parameters for flatten command
type FlattenParams struct {
	Background color.RGBA
}

// NewFlattenParamsFromMap creates FlattenParams from a generic map
func NewFlattenParamsFromMap(params map[string]any) (*FlattenParams, error) {
	hex := commandstructure.GetStringParam(params, "background", DefaultFlattenBackground)
	bg, err := parseHexColor(hex)
	if err != nil {
		return nil, err
	}
	return &FlattenParams{Background: bg}, nil
}

// FlattenCommand composites the asset onto an opaque background color.
// App stores reject app icons that carry an alpha channel.
type FlattenCommand struct {
	name   string
	params *FlattenParams
}

// NewFlattenCommand creates a new flatten command from configuration parameters
func NewFlattenCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewFlattenParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &FlattenCommand{
		name:   "FlattenCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *FlattenCommand) Name() string {
	return c.name
}

// GetParams returns the typed parameters
func (c *FlattenCommand) GetParams() *FlattenParams {
	return c.params
}

// Execute blends every pixel over the background and returns an opaque PNG
func (c *FlattenCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := decodePNG(imageData)
	if err != nil {
		slog.Error("FlattenCommand: failed to decode PNG image", "error", err)
		return nil, fmt.Errorf("failed to decode PNG image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	bg := c.params.Background

	slog.Debug("FlattenCommand: flattening image",
		"width", width,
		"height", height,
		"background", fmt.Sprintf("#%02x%02x%02x", bg.R, bg.G, bg.B))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	common.ParallelFor(height, 0, func(y int) {
		for x := 0; x < width; x++ {
			dst.SetRGBA(x, y, blendOver(img.At(bounds.Min.X+x, bounds.Min.Y+y), bg))
		}
	})

	out, err := encodePNG(dst)
	if err != nil {
		slog.Error("FlattenCommand: failed to encode image", "error", err)
		return nil, fmt.Errorf("failed to encode flattened PNG image: %w", err)
	}
	return out, nil
}

// blendOver composites a premultiplied color over an opaque background.
func blendOver(c color.Color, bg color.RGBA) color.RGBA {
	r, g, b, a := c.RGBA()
	inv := 0xffff - a
	return color.RGBA{
		R: uint8((r + uint32(bg.R)*0x101*inv/0xffff) >> 8),
		G: uint8((g + uint32(bg.G)*0x101*inv/0xffff) >> 8),
		B: uint8((b + uint32(bg.B)*0x101*inv/0xffff) >> 8),
		A: 255,
	}
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("FlattenCommand", NewFlattenCommand); err != nil {
		panic(fmt.Sprintf("failed to register FlattenCommand: %v", err))
	}
}
