// Package shader compiles and links the flat colour program used by the shape
// renderer and exposes uniform uploads by name.
package shader

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	connect4 "github.com/richinsley/connect4"
	"github.com/richinsley/connect4/graphics"
)

var errAlreadyLoaded = errors.New("program already loaded")

// Program is a linked vertex+fragment program. The zero handle means not loaded.
type Program struct {
	device graphics.Device
	id     uint32
	// names maps source uniform names to the names emitted by a translator.
	names map[string]string
}

func NewProgram(device graphics.Device) *Program {
	return &Program{device: device}
}

// Load compiles both stages and links them. Stage objects are released on every
// path; on failure the program stays unloaded.
func (p *Program) Load(vertexSource, fragmentSource string) error {
	if p.id != 0 {
		return errAlreadyLoaded
	}

	vertex, err := p.compile(graphics.VertexShader, vertexSource)
	if err != nil {
		return err
	}
	fragment, err := p.compile(graphics.FragmentShader, fragmentSource)
	if err != nil {
		p.device.DeleteShader(vertex)
		return err
	}

	program := p.device.CreateProgram()
	p.device.AttachShader(program, vertex)
	p.device.AttachShader(program, fragment)
	p.device.LinkProgram(program)
	ok, infoLog := p.device.ProgramStatus(program)

	p.device.DeleteShader(vertex)
	p.device.DeleteShader(fragment)

	if !ok {
		p.device.DeleteProgram(program)
		connect4.Logger().Error("program linking error", "log", infoLog)
		return &LinkError{Log: infoLog}
	}

	p.id = program
	connect4.Logger().Debug("program linked", "program", program)
	return nil
}

// LoadTranslated runs both ES sources through t, remembers the uniform name
// mapping it reports, and loads the translated code.
func (p *Program) LoadTranslated(t Translator, vertexSource, fragmentSource string) error {
	vs, err := t.Translate(vertexSource, graphics.VertexShader)
	if err != nil {
		return err
	}
	fs, err := t.Translate(fragmentSource, graphics.FragmentShader)
	if err != nil {
		return err
	}
	if err := p.Load(vs.Code, fs.Code); err != nil {
		return err
	}

	p.names = make(map[string]string, len(vs.Names)+len(fs.Names))
	for k, v := range vs.Names {
		p.names[k] = v
	}
	for k, v := range fs.Names {
		p.names[k] = v
	}
	return nil
}

func (p *Program) compile(stage graphics.ShaderStage, source string) (uint32, error) {
	shader := p.device.CreateShader(stage)
	p.device.ShaderSource(shader, source)
	p.device.CompileShader(shader)

	ok, infoLog := p.device.ShaderStatus(shader)
	if !ok {
		p.device.DeleteShader(shader)
		connect4.Logger().Error("shader compilation error", "type", stage.String(), "log", infoLog)
		return 0, &CompileError{Stage: stage, Log: infoLog}
	}
	return shader, nil
}

// Use binds the program as current. Required before uniform uploads and draws.
func (p *Program) Use() {
	p.device.UseProgram(p.id)
}

func (p *Program) Handle() uint32 { return p.id }

func (p *Program) Loaded() bool { return p.id != 0 }

// Destroy deletes the program. Safe to call more than once.
func (p *Program) Destroy() {
	if p.id == 0 {
		return
	}
	p.device.DeleteProgram(p.id)
	connect4.Logger().Debug("program deleted", "program", p.id)
	p.id = 0
	p.names = nil
}

// location resolves name on every call. Unknown names yield -1, which every
// upload below ignores.
func (p *Program) location(name string) int32 {
	if p.id == 0 {
		return -1
	}
	if mapped, ok := p.names[name]; ok {
		name = mapped
	}
	return p.device.UniformLocation(p.id, name)
}

func (p *Program) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	p.SetInt(name, v)
}

func (p *Program) SetInt(name string, value int32) {
	if loc := p.location(name); loc != -1 {
		p.device.Uniform1i(loc, value)
	}
}

func (p *Program) SetFloat(name string, value float32) {
	if loc := p.location(name); loc != -1 {
		p.device.Uniform1f(loc, value)
	}
}

func (p *Program) SetVec3(name string, value mgl32.Vec3) {
	if loc := p.location(name); loc != -1 {
		p.device.Uniform3f(loc, value)
	}
}

func (p *Program) SetMat4(name string, value mgl32.Mat4) {
	if loc := p.location(name); loc != -1 {
		p.device.UniformMatrix4f(loc, value)
	}
}
