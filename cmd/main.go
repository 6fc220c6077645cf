package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	connect4 "github.com/richinsley/connect4"
	"github.com/richinsley/connect4/capture"
	"github.com/richinsley/connect4/engine"
	"github.com/richinsley/connect4/glfwcontext"
	"github.com/richinsley/connect4/options"
	"github.com/richinsley/connect4/scene"
	"github.com/richinsley/connect4/shader"
)

func runInteractive(e *engine.Engine, s scene.Scene, opts *options.EngineOptions) {
	clearColor := opts.ClearColor()
	for e.IsRunning() {
		e.BeginFrameWithColor(clearColor)
		s.Draw(e.Renderer(), e.Width(), e.Height())
		e.EndFrame()
	}
}

func runRecording(e *engine.Engine, s scene.Scene, opts *options.EngineOptions) error {
	rec, err := capture.NewRecorder(capture.Config{
		Width:      e.Width(),
		Height:     e.Height(),
		FPS:        *opts.FPS,
		OutputFile: *opts.OutputFile,
		FFMPEGPath: *opts.FFMPEGPath,
	})
	if err != nil {
		return err
	}
	if err := rec.Start(); err != nil {
		return err
	}

	clearColor := opts.ClearColor()
	for i := 0; i < *opts.Frames && e.IsRunning(); i++ {
		e.BeginFrameWithColor(clearColor)
		s.Draw(e.Renderer(), e.Width(), e.Height())
		if err := rec.WriteFrame(e.ReadFrame()); err != nil {
			rec.Close()
			return err
		}
		e.EndFrame()
	}
	return rec.Close()
}

func checkShaders() error {
	t, err := shader.NewANGLETranslator(context.Background(), false)
	if err != nil {
		return err
	}
	return shader.ValidateBuiltins(t)
}

func init() {
	runtime.LockOSThread()
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	opts, err := options.Parse(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *opts.Verbose {
		connect4.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *opts.CheckShaders {
		if err := checkShaders(); err != nil {
			log.Fatalf("Shader check failed: %v", err)
		}
		log.Println("Built-in shaders translated successfully.")
		return
	}

	s, err := scene.Lookup(*opts.Scene)
	if err != nil {
		log.Fatalf("%v", err)
	}

	engineOpts := []engine.Option{engine.WithSwapInterval(opts.SwapInterval())}
	if *opts.Translate {
		t, err := shader.NewANGLETranslator(context.Background(), false)
		if err != nil {
			log.Fatalf("Failed to start shader translator: %v", err)
		}
		engineOpts = append(engineOpts, engine.WithTranslator(t))
	}
	if *opts.Record {
		engineOpts = append(engineOpts, engine.WithOffscreen(), engine.WithSwapInterval(0))
	}

	e := engine.New(glfwcontext.NewPlatform(), engineOpts...)
	if err := e.Initialize(*opts.Width, *opts.Height, *opts.Title); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize graphics engine: %v\n", err)
		e.Shutdown()
		os.Exit(1)
	}
	defer e.Shutdown()

	if *opts.Record {
		log.Printf("Recording %d frames to %s...", *opts.Frames, *opts.OutputFile)
		if err := runRecording(e, s, opts); err != nil {
			e.Shutdown()
			log.Fatalf("Recording failed: %v", err)
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return
	}

	runInteractive(e, s, opts)
}
