package capture

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func testConfig() Config {
	return Config{Width: 4, Height: 2, FPS: 30, OutputFile: "out.mp4"}
}

// sink replaces ffmpeg with an in-memory consumer.
type sink struct {
	buf  bytes.Buffer
	fail error
}

func (s *sink) run(cfg Config, input io.Reader) error {
	if s.fail != nil {
		return s.fail
	}
	_, err := io.Copy(&s.buf, input)
	return err
}

func newTestRecorder(t *testing.T, s *sink) *Recorder {
	t.Helper()
	r, err := NewRecorder(testConfig())
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	r.run = s.run
	return r
}

func TestNewRecorderValidates(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no width", Config{Height: 2, FPS: 30, OutputFile: "o.mp4"}},
		{"no height", Config{Width: 2, FPS: 30, OutputFile: "o.mp4"}},
		{"no fps", Config{Width: 2, Height: 2, OutputFile: "o.mp4"}},
		{"no output", Config{Width: 2, Height: 2, FPS: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRecorder(tt.cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRecorderStreamsFrames(t *testing.T) {
	s := &sink{}
	r := newTestRecorder(t, s)
	if err := r.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	frame := bytes.Repeat([]byte{1, 2, 3, 4}, 8)
	for i := 0; i < 3; i++ {
		if err := r.WriteFrame(frame); err != nil {
			t.Fatalf("WriteFrame %d returned error: %v", i, err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if r.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", r.Frames())
	}
	if s.buf.Len() != 3*r.FrameSize() {
		t.Errorf("encoder received %d bytes, want %d", s.buf.Len(), 3*r.FrameSize())
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
	if err := r.WriteFrame(frame); !errors.Is(err, ErrClosed) {
		t.Errorf("WriteFrame after Close = %v, want ErrClosed", err)
	}
}

func TestRecorderRejectsWrongFrameSize(t *testing.T) {
	r := newTestRecorder(t, &sink{})
	if err := r.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer r.Close()

	if err := r.WriteFrame(make([]byte, 7)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("WriteFrame error = %v, want ErrFrameSize", err)
	}
	if r.Frames() != 0 {
		t.Errorf("rejected frame was counted")
	}
}

func TestRecorderLifecycleErrors(t *testing.T) {
	r := newTestRecorder(t, &sink{})
	if err := r.WriteFrame(make([]byte, r.FrameSize())); !errors.Is(err, ErrNotStarted) {
		t.Errorf("WriteFrame before Start = %v, want ErrNotStarted", err)
	}
	if err := r.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := r.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
	if err := r.Start(); !errors.Is(err, ErrClosed) {
		t.Errorf("Start after Close = %v, want ErrClosed", err)
	}
}

func TestCloseWithoutStart(t *testing.T) {
	r := newTestRecorder(t, &sink{})
	if err := r.Close(); err != nil {
		t.Errorf("Close without Start returned error: %v", err)
	}
}

func TestEncoderFailure(t *testing.T) {
	boom := errors.New("ffmpeg not found")
	r := newTestRecorder(t, &sink{fail: boom})
	if err := r.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	// The encoder has exited, so writes fail instead of blocking.
	for i := 0; i < 10; i++ {
		if err := r.WriteFrame(make([]byte, r.FrameSize())); err != nil {
			break
		}
	}
	if err := r.Close(); !errors.Is(err, boom) {
		t.Errorf("Close error = %v, want %v", err, boom)
	}
}

func TestFFmpegArgs(t *testing.T) {
	cfg := testConfig()
	in := inputArgs(cfg)
	if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" || in["s"] != "4x2" || in["framerate"] != 30 {
		t.Errorf("unexpected input args: %v", in)
	}
	out := outputArgs(cfg)
	if out["vf"] != "vflip" || out["pix_fmt"] != "yuv420p" {
		t.Errorf("unexpected output args: %v", out)
	}
}
