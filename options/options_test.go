package options

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("connect4", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseDefaults(t *testing.T) {
	o, err := Parse(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if *o.Width != 800 || *o.Height != 600 {
		t.Errorf("default size = %dx%d, want 800x600", *o.Width, *o.Height)
	}
	if *o.Title != "Connect4" {
		t.Errorf("default title = %q", *o.Title)
	}
	if *o.Scene != "shapes" {
		t.Errorf("default scene = %q", *o.Scene)
	}
	if *o.Record || *o.Translate || *o.CheckShaders || *o.Verbose {
		t.Error("optional modes should be off by default")
	}
	if o.SwapInterval() != 1 {
		t.Errorf("SwapInterval() = %d, want 1", o.SwapInterval())
	}
	want := mgl32.Vec3{0x1a / 255.0, 0x1a / 255.0, 0x1a / 255.0}
	if !o.ClearColor().ApproxEqual(want) {
		t.Errorf("ClearColor() = %v, want %v", o.ClearColor(), want)
	}
}

func TestParseFlags(t *testing.T) {
	o, err := Parse(newFlagSet(), []string{
		"-width", "1024", "-height", "768", "-scene", "grid",
		"-clear", "#ff8000", "-vsync=false", "-record", "-frames", "30",
	})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if *o.Width != 1024 || *o.Height != 768 || *o.Scene != "grid" {
		t.Errorf("unexpected options: %dx%d scene %q", *o.Width, *o.Height, *o.Scene)
	}
	if o.SwapInterval() != 0 {
		t.Errorf("SwapInterval() = %d, want 0", o.SwapInterval())
	}
	if !*o.Record || *o.Frames != 30 {
		t.Errorf("record=%v frames=%d", *o.Record, *o.Frames)
	}
	if !o.ClearColor().ApproxEqual(mgl32.Vec3{1, 128.0 / 255, 0}) {
		t.Errorf("ClearColor() = %v", o.ClearColor())
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero width", []string{"-width", "0"}},
		{"negative height", []string{"-height", "-5"}},
		{"short colour", []string{"-clear", "fff"}},
		{"bad colour digits", []string{"-clear", "zz0000"}},
		{"no frames", []string{"-record", "-frames", "0"}},
		{"no fps", []string{"-record", "-fps", "0"}},
		{"no output", []string{"-record", "-output", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(newFlagSet(), tt.args)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse(%v) error = %v, want ErrInvalid", tt.args, err)
			}
		})
	}
}

func TestRecordingFlagsIgnoredWhenNotRecording(t *testing.T) {
	if _, err := Parse(newFlagSet(), []string{"-frames", "0"}); err != nil {
		t.Errorf("frames should only be checked in record mode: %v", err)
	}
}

func TestParseUnknownFlag(t *testing.T) {
	_, err := Parse(newFlagSet(), []string{"-shader", "XlSSzV"})
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Errorf("unknown flag should surface the flag package error, got %v", err)
	}
}
