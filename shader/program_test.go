package shader_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/connect4/graphics"
	"github.com/richinsley/connect4/graphics/graphicstest"
	"github.com/richinsley/connect4/shader"
)

func TestLoadLinksAndReleasesStages(t *testing.T) {
	dev := graphicstest.NewDevice()
	p := shader.NewProgram(dev)

	if err := p.Load(shader.VertexSource(shader.DesktopGL), shader.FragmentSource(shader.DesktopGL)); err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if !p.Loaded() || p.Handle() == 0 {
		t.Fatal("expected program to be loaded")
	}
	if n := dev.Live("shader"); n != 0 {
		t.Errorf("expected stage objects to be deleted after link, %d still live", n)
	}
	if n := dev.Live("program"); n != 1 {
		t.Errorf("expected 1 live program, got %d", n)
	}
}

func TestLoadVertexCompileFailure(t *testing.T) {
	dev := graphicstest.NewDevice()
	dev.CompileErrors = map[graphics.ShaderStage]string{
		graphics.VertexShader: "0:3: 'positon' : undeclared identifier",
	}
	p := shader.NewProgram(dev)

	err := p.Load("bad", shader.FragmentSource(shader.DesktopGL))
	var ce *shader.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
	if ce.Stage != graphics.VertexShader {
		t.Errorf("expected vertex stage, got %s", ce.Stage)
	}
	if !strings.Contains(err.Error(), "undeclared identifier") {
		t.Errorf("expected compiler log in error, got %q", err.Error())
	}
	if p.Loaded() {
		t.Error("program should not be loaded after compile failure")
	}
	if dev.Live("shader") != 0 || dev.Live("program") != 0 {
		t.Errorf("leaked objects: %d shaders, %d programs", dev.Live("shader"), dev.Live("program"))
	}
}

func TestLoadFragmentCompileFailureReleasesVertex(t *testing.T) {
	dev := graphicstest.NewDevice()
	dev.CompileErrors = map[graphics.ShaderStage]string{
		graphics.FragmentShader: "syntax error",
	}
	p := shader.NewProgram(dev)

	err := p.Load(shader.VertexSource(shader.DesktopGL), "bad")
	var ce *shader.CompileError
	if !errors.As(err, &ce) || ce.Stage != graphics.FragmentShader {
		t.Fatalf("expected fragment *CompileError, got %v", err)
	}
	if n := dev.Live("shader"); n != 0 {
		t.Errorf("expected both stages deleted, %d still live", n)
	}
}

func TestLoadLinkFailure(t *testing.T) {
	dev := graphicstest.NewDevice()
	dev.LinkError = "varying mismatch"
	p := shader.NewProgram(dev)

	err := p.Load(shader.VertexSource(shader.DesktopGL), shader.FragmentSource(shader.DesktopGL))
	var le *shader.LinkError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LinkError, got %v", err)
	}
	if le.Log != "varying mismatch" {
		t.Errorf("unexpected link log %q", le.Log)
	}
	if dev.Live("program") != 0 || dev.Live("shader") != 0 {
		t.Errorf("leaked objects: %d shaders, %d programs", dev.Live("shader"), dev.Live("program"))
	}
}

func TestLoadTwiceFails(t *testing.T) {
	dev := graphicstest.NewDevice()
	p := shader.NewProgram(dev)
	vs, fs := shader.VertexSource(shader.DesktopGL), shader.FragmentSource(shader.DesktopGL)

	if err := p.Load(vs, fs); err != nil {
		t.Fatal(err)
	}
	first := p.Handle()
	if err := p.Load(vs, fs); err == nil {
		t.Error("second Load() should fail")
	}
	if p.Handle() != first {
		t.Error("second Load() must not replace the program")
	}
}

func TestUniformUploads(t *testing.T) {
	dev := graphicstest.NewDevice()
	p := shader.NewProgram(dev)
	if err := p.Load(shader.VertexSource(shader.DesktopGL), shader.FragmentSource(shader.DesktopGL)); err != nil {
		t.Fatal(err)
	}
	p.Use()

	m := mgl32.Translate3D(1, 2, 3)
	p.SetMat4("model", m)
	p.SetVec3("color", mgl32.Vec3{1, 0, 0})
	p.SetFloat("alpha", 0.5)
	p.SetInt("mode", 3)
	p.SetBool("flag", true)

	tests := []struct {
		name  string
		check func(graphicstest.Uniform) bool
	}{
		{"model", func(u graphicstest.Uniform) bool { return u.Kind == "mat4" && u.Mat4 == m }},
		{"color", func(u graphicstest.Uniform) bool { return u.Kind == "vec3" && u.Vec3 == mgl32.Vec3{1, 0, 0} }},
		{"alpha", func(u graphicstest.Uniform) bool { return u.Kind == "float" && u.Float == 0.5 }},
		{"mode", func(u graphicstest.Uniform) bool { return u.Kind == "int" && u.Int == 3 }},
		{"flag", func(u graphicstest.Uniform) bool { return u.Kind == "int" && u.Int == 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := dev.UniformValue(p.Handle(), tt.name)
			if !ok {
				t.Fatalf("uniform %q was not uploaded", tt.name)
			}
			if !tt.check(u) {
				t.Errorf("unexpected value for %q: %+v", tt.name, u)
			}
		})
	}
}

func TestUnknownUniformIsSilent(t *testing.T) {
	dev := graphicstest.NewDevice()
	dev.ActiveUniforms = []string{"color"}
	p := shader.NewProgram(dev)
	if err := p.Load(shader.VertexSource(shader.DesktopGL), shader.FragmentSource(shader.DesktopGL)); err != nil {
		t.Fatal(err)
	}
	p.Use()

	p.SetVec3("tint", mgl32.Vec3{1, 1, 1})
	if _, ok := dev.UniformValue(p.Handle(), "tint"); ok {
		t.Error("upload to an inactive uniform should be ignored")
	}
}

func TestSettersBeforeLoadDoNothing(t *testing.T) {
	dev := graphicstest.NewDevice()
	p := shader.NewProgram(dev)

	p.SetVec3("color", mgl32.Vec3{1, 0, 0})
	p.SetMat4("model", mgl32.Ident4())
	if len(dev.Calls) != 0 {
		t.Errorf("expected no device calls, got %v", dev.Calls)
	}
}

func TestDestroyIdempotent(t *testing.T) {
	dev := graphicstest.NewDevice()
	p := shader.NewProgram(dev)
	if err := p.Load(shader.VertexSource(shader.DesktopGL), shader.FragmentSource(shader.DesktopGL)); err != nil {
		t.Fatal(err)
	}

	p.Destroy()
	p.Destroy()

	if p.Loaded() {
		t.Error("program should be unloaded after Destroy")
	}
	if len(dev.DoubleFrees) != 0 {
		t.Errorf("double free: %v", dev.DoubleFrees)
	}
	if dev.Live("program") != 0 {
		t.Error("program not released")
	}
}

type renamingTranslator struct {
	prefix string
}

func (r renamingTranslator) Translate(source string, stage graphics.ShaderStage) (*shader.Translation, error) {
	names := map[string]string{}
	code := source
	for _, n := range []string{"model", "view", "projection", "color"} {
		if strings.Contains(source, "uniform mat4 "+n) || strings.Contains(source, "uniform vec3 "+n) {
			names[n] = r.prefix + n
			code = strings.ReplaceAll(code, n, r.prefix+n)
		}
	}
	return &shader.Translation{Code: code, Names: names}, nil
}

func TestLoadTranslatedUsesMappedNames(t *testing.T) {
	dev := graphicstest.NewDevice()
	dev.ActiveUniforms = []string{"_umodel", "_uview", "_uprojection", "_ucolor"}
	p := shader.NewProgram(dev)

	err := p.LoadTranslated(renamingTranslator{prefix: "_u"}, shader.VertexSource(shader.ES), shader.FragmentSource(shader.ES))
	if err != nil {
		t.Fatalf("LoadTranslated() returned error: %v", err)
	}
	p.Use()
	p.SetVec3("color", mgl32.Vec3{0, 1, 0})

	u, ok := dev.UniformValue(p.Handle(), "_ucolor")
	if !ok || u.Vec3 != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected upload to mapped uniform, got %+v (found=%v)", u, ok)
	}
}

type failingTranslator struct{}

func (failingTranslator) Translate(string, graphics.ShaderStage) (*shader.Translation, error) {
	return nil, errors.New("unsupported")
}

func TestLoadTranslatedPropagatesTranslatorError(t *testing.T) {
	dev := graphicstest.NewDevice()
	p := shader.NewProgram(dev)

	if err := p.LoadTranslated(failingTranslator{}, "a", "b"); err == nil {
		t.Fatal("expected translator error")
	}
	if len(dev.Calls) != 0 {
		t.Errorf("no GPU work expected after translation failure, got %v", dev.Calls)
	}
}

func TestValidateBuiltinsReportsMissingUniform(t *testing.T) {
	if err := shader.ValidateBuiltins(renamingTranslator{prefix: "_u"}); err != nil {
		t.Errorf("ValidateBuiltins() returned error: %v", err)
	}
	if err := shader.ValidateBuiltins(failingTranslator{}); err == nil {
		t.Error("expected error from failing translator")
	}
}
