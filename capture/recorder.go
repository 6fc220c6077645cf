// Package capture records rendered frames into a video file through ffmpeg.
package capture

import (
	"errors"
	"fmt"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	connect4 "github.com/richinsley/connect4"
)

const bytesPerPixel = 4

var (
	ErrNotStarted     = errors.New("recorder not started")
	ErrAlreadyStarted = errors.New("recorder already started")
	ErrFrameSize      = errors.New("unexpected frame size")
	ErrClosed         = errors.New("recorder closed")
)

type Config struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	FFMPEGPath string
}

// Recorder streams tightly packed RGBA frames to an ffmpeg process over a pipe.
type Recorder struct {
	cfg Config

	// run consumes the raw frame stream until it is closed.
	run func(cfg Config, input io.Reader) error

	pipeWriter *io.PipeWriter
	errc       chan error
	frames     int
	closed     bool
	closeErr   error
}

func NewRecorder(cfg Config) (*Recorder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid capture size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid capture frame rate %d", cfg.FPS)
	}
	if cfg.OutputFile == "" {
		return nil, errors.New("capture output file not set")
	}
	return &Recorder{cfg: cfg, run: runFFmpeg}, nil
}

func inputArgs(cfg Config) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": cfg.FPS,
	}
}

// outputArgs flips vertically since GL reads rows bottom-up.
func outputArgs(cfg Config) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}
}

func command(cfg Config, input io.Reader) *ffmpeg.Stream {
	cmd := ffmpeg.Input("pipe:", inputArgs(cfg)).
		Output(cfg.OutputFile, outputArgs(cfg)).
		OverWriteOutput().WithInput(input).ErrorToStdOut()
	if cfg.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(cfg.FFMPEGPath)
	}
	return cmd
}

func runFFmpeg(cfg Config, input io.Reader) error {
	return command(cfg, input).Run()
}

// FrameSize is the byte length WriteFrame expects.
func (r *Recorder) FrameSize() int {
	return r.cfg.Width * r.cfg.Height * bytesPerPixel
}

// Start launches the encoder.
func (r *Recorder) Start() error {
	if r.closed {
		return ErrClosed
	}
	if r.pipeWriter != nil {
		return ErrAlreadyStarted
	}
	pipeReader, pipeWriter := io.Pipe()
	r.pipeWriter = pipeWriter
	r.errc = make(chan error, 1)

	connect4.Logger().Info("capture: starting encoder",
		"output", r.cfg.OutputFile, "width", r.cfg.Width, "height", r.cfg.Height, "fps", r.cfg.FPS)

	go func() {
		err := r.run(r.cfg, pipeReader)
		// Unblock the writer if the encoder exits early.
		if err != nil {
			pipeReader.CloseWithError(fmt.Errorf("encoder exited: %w", err))
		} else {
			pipeReader.CloseWithError(errors.New("encoder exited"))
		}
		r.errc <- err
	}()
	return nil
}

// WriteFrame sends one frame to the encoder.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if r.closed {
		return ErrClosed
	}
	if r.pipeWriter == nil {
		return ErrNotStarted
	}
	if len(pixels) != r.FrameSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(pixels), r.FrameSize())
	}
	if _, err := r.pipeWriter.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame %d to ffmpeg: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Close ends the stream and waits for the encoder to finish. Safe to call more than once.
func (r *Recorder) Close() error {
	if r.closed {
		return r.closeErr
	}
	r.closed = true
	if r.pipeWriter == nil {
		return nil
	}
	r.pipeWriter.Close()
	if err := <-r.errc; err != nil {
		r.closeErr = fmt.Errorf("ffmpeg failed: %w", err)
		return r.closeErr
	}
	connect4.Logger().Info("capture: finished", "output", r.cfg.OutputFile, "frames", r.frames)
	return nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int { return r.frames }
