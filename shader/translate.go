package shader

import (
	"context"
	"fmt"

	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/connect4/graphics"
)

// Translation is the output of a Translator for one stage.
type Translation struct {
	Code string
	// Names maps each uniform or attribute name in the input to its name in Code.
	Names map[string]string
}

// Translator converts GLSL ES 3.00 sources to the dialect of the running context.
type Translator interface {
	Translate(source string, stage graphics.ShaderStage) (*Translation, error)
}

// ANGLETranslator wraps the wasm build of ANGLE's shader translator.
type ANGLETranslator struct {
	translator *gst.ShaderTranslator
	gles       bool
}

// NewANGLETranslator starts the translator runtime. When gles is set the output is
// ESSL instead of desktop GLSL 3.30.
func NewANGLETranslator(ctx context.Context, gles bool) (*ANGLETranslator, error) {
	t, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", err)
	}
	return &ANGLETranslator{translator: t, gles: gles}, nil
}

func (a *ANGLETranslator) Translate(source string, stage graphics.ShaderStage) (*Translation, error) {
	stageName := "fragment"
	if stage == graphics.VertexShader {
		stageName = "vertex"
	}

	outputFormat := gst.OutputFormatGLSL330
	if a.gles {
		outputFormat = gst.OutputFormatESSL
	}

	out, err := a.translator.TranslateShader(source, stageName, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stageName, err)
	}

	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &Translation{Code: out.Code, Names: names}, nil
}

// ValidateBuiltins translates the ES flavour of the flat colour program and checks
// that every uniform the renderer sets survived translation.
func ValidateBuiltins(t Translator) error {
	vs, err := t.Translate(VertexSource(ES), graphics.VertexShader)
	if err != nil {
		return err
	}
	fs, err := t.Translate(FragmentSource(ES), graphics.FragmentShader)
	if err != nil {
		return err
	}

	for _, name := range []string{UniformModel, UniformView, UniformProjection} {
		if _, ok := vs.Names[name]; !ok {
			return fmt.Errorf("vertex shader: uniform %q missing after translation", name)
		}
	}
	if _, ok := fs.Names[UniformColor]; !ok {
		return fmt.Errorf("fragment shader: uniform %q missing after translation", UniformColor)
	}
	return nil
}
