package options

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultTitle  = "Connect4"
	DefaultScene  = "shapes"
	DefaultClear  = "1a1a1a"
)

var ErrInvalid = errors.New("invalid option")

type EngineOptions struct {
	Width  *int
	Height *int
	Title  *string
	Scene  *string
	Clear  *string // hex RGB, e.g. "1a1a1a" or "#1a1a1a"
	VSync  *bool

	Translate    *bool // load the shape program through the ANGLE translator
	CheckShaders *bool // validate built-in shaders and exit

	// Recording options
	Record     *bool
	Frames     *int
	FPS        *int
	OutputFile *string
	FFMPEGPath *string

	Verbose *bool
}

// Register defines every flag on fs and returns the options bound to them.
func Register(fs *flag.FlagSet) *EngineOptions {
	return &EngineOptions{
		Width:        fs.Int("width", DefaultWidth, "Window width in pixels"),
		Height:       fs.Int("height", DefaultHeight, "Window height in pixels"),
		Title:        fs.String("title", DefaultTitle, "Window title"),
		Scene:        fs.String("scene", DefaultScene, "Scene to draw (shapes, grid, blank)"),
		Clear:        fs.String("clear", DefaultClear, "Clear colour as hex RGB"),
		VSync:        fs.Bool("vsync", true, "Wait for vertical sync on buffer swap"),
		Translate:    fs.Bool("translate", false, "Compile shaders through the ANGLE translator"),
		CheckShaders: fs.Bool("check-shaders", false, "Validate the built-in shaders and exit"),
		Record:       fs.Bool("record", false, "Render offscreen and record to a video file"),
		Frames:       fs.Int("frames", 120, "Number of frames to record"),
		FPS:          fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile:   fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath:   fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Verbose:      fs.Bool("v", false, "Log engine diagnostics to stderr"),
	}
}

// Parse registers the flags on fs, parses args and validates the result.
func Parse(fs *flag.FlagSet, args []string) (*EngineOptions, error) {
	o := Register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *EngineOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalid, *o.Width, *o.Height)
	}
	if _, err := ParseHexColor(*o.Clear); err != nil {
		return err
	}
	if *o.Record {
		if *o.Frames <= 0 {
			return fmt.Errorf("%w: -frames must be positive, got %d", ErrInvalid, *o.Frames)
		}
		if *o.FPS <= 0 {
			return fmt.Errorf("%w: -fps must be positive, got %d", ErrInvalid, *o.FPS)
		}
		if *o.OutputFile == "" {
			return fmt.Errorf("%w: -output is required when recording", ErrInvalid)
		}
	}
	return nil
}

// ClearColor returns the parsed -clear value.
func (o *EngineOptions) ClearColor() mgl32.Vec3 {
	c, _ := ParseHexColor(*o.Clear)
	return c
}

// SwapInterval maps -vsync to a buffer swap interval.
func (o *EngineOptions) SwapInterval() int {
	if *o.VSync {
		return 1
	}
	return 0
}

// ParseHexColor parses "rrggbb" with an optional leading '#' into 0..1 components.
func ParseHexColor(s string) (mgl32.Vec3, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("%w: colour %q must have 6 hex digits", ErrInvalid, s)
	}
	var c mgl32.Vec3
	for i := range 3 {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("%w: colour %q: %w", ErrInvalid, s, err)
		}
		c[i] = float32(v) / 255
	}
	return c, nil
}
