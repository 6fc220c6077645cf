package shader

import (
	"fmt"

	"github.com/richinsley/connect4/graphics"
)

// CompileError is returned when a shader stage fails to compile. Log holds the
// compiler's info log.
type CompileError struct {
	Stage graphics.ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError is returned when the program fails to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}
