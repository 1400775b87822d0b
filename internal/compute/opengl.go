package compute

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// OpenGLBackend keeps a particle cloud resident on the GPU: an SSBO pair
// stepped by a compute shader and drawn straight from the front buffer,
// so particles never cross back to the host. Particles are packed as two
// vec4s, position+mass and velocity+pad.
//
// It is not a Backend: it needs a live GL context and its cloud stays on
// the device, so hosts drive Step and Draw directly.
type OpenGLBackend struct {
	Program       uint32
	RenderProgram uint32
	SSBOIn        uint32
	SSBOOut       uint32
	VAO           uint32
	NumParticles  int32
	Initialized   bool
}

func NewOpenGLBackend(numParticles int) *OpenGLBackend {
	return &OpenGLBackend{NumParticles: int32(numParticles)}
}

// Init compiles the compute shader and uploads the initial cloud,
// 8 float32 per particle. The caller must hold a current GL context.
func (c *OpenGLBackend) Init(shaderPath string, initialData []float32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init opengl: %v", err)
	}

	program, err := createComputeProgram(shaderPath)
	if err != nil {
		return err
	}
	c.Program = program

	size := int(c.NumParticles) * 8 * 4

	gl.GenBuffers(1, &c.SSBOIn)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.SSBOIn)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, gl.Ptr(initialData), gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, c.SSBOIn)

	gl.GenBuffers(1, &c.SSBOOut)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.SSBOOut)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, c.SSBOOut)

	gl.GenVertexArrays(1, &c.VAO)
	c.Initialized = true
	return nil
}

// InitRender compiles the point-sprite pipeline used by Draw.
func (c *OpenGLBackend) InitRender(vertPath, fragPath string) error {
	program, err := createRenderProgram(vertPath, fragPath)
	if err != nil {
		return err
	}
	c.RenderProgram = program
	return nil
}

// Step dispatches one compute pass and swaps the buffer pair. mouse packs
// an attractor: world x, y on the z=0 plane, strength, and an active flag
// in w.
func (c *OpenGLBackend) Step(dt, damping float32, gravity [3]float32, k1, k2, swirl float32, mouse [4]float32) {
	if !c.Initialized {
		return
	}

	gl.UseProgram(c.Program)

	gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str("dt\x00")), dt)
	gl.Uniform1i(gl.GetUniformLocation(c.Program, gl.Str("numParticles\x00")), c.NumParticles)
	gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str("damping\x00")), damping)
	gl.Uniform3f(gl.GetUniformLocation(c.Program, gl.Str("gravity\x00")), gravity[0], gravity[1], gravity[2])
	gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str("k1\x00")), k1)
	gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str("k2\x00")), k2)
	gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str("swirl\x00")), swirl)
	gl.Uniform4f(gl.GetUniformLocation(c.Program, gl.Str("mouse\x00")), mouse[0], mouse[1], mouse[2], mouse[3])

	numGroups := (c.NumParticles + 255) / 256
	gl.DispatchCompute(uint32(numGroups), 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.VERTEX_ATTRIB_ARRAY_BARRIER_BIT)

	c.SSBOIn, c.SSBOOut = c.SSBOOut, c.SSBOIn
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, c.SSBOIn)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, c.SSBOOut)
}

// Draw renders the cloud as points under the given column-major
// view-projection matrix.
func (c *OpenGLBackend) Draw(viewProj [16]float32) {
	if !c.Initialized || c.RenderProgram == 0 {
		return
	}

	gl.UseProgram(c.RenderProgram)
	gl.UniformMatrix4fv(gl.GetUniformLocation(c.RenderProgram, gl.Str("viewProj\x00")), 1, false, &viewProj[0])

	gl.BindVertexArray(c.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.SSBOIn)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 32, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, 32, gl.PtrOffset(16))

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DrawArrays(gl.POINTS, 0, c.NumParticles)

	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func (c *OpenGLBackend) Cleanup() {
	if !c.Initialized {
		return
	}
	gl.DeleteBuffers(1, &c.SSBOIn)
	gl.DeleteBuffers(1, &c.SSBOOut)
	gl.DeleteVertexArrays(1, &c.VAO)
	gl.DeleteProgram(c.Program)
	if c.RenderProgram != 0 {
		gl.DeleteProgram(c.RenderProgram)
	}
	c.Initialized = false
}

func createComputeProgram(path string) (uint32, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	shader, err := compileShader(string(source), gl.COMPUTE_SHADER)
	if err != nil {
		return 0, fmt.Errorf("compute shader %s: %w", path, err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("link compute program %s", path)
	}

	gl.DeleteShader(shader)
	return program, nil
}

func createRenderProgram(vertPath, fragPath string) (uint32, error) {
	vSource, err := os.ReadFile(vertPath)
	if err != nil {
		return 0, err
	}
	fSource, err := os.ReadFile(fragPath)
	if err != nil {
		return 0, err
	}

	vShader, err := compileShader(string(vSource), gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader %s: %w", vertPath, err)
	}
	fShader, err := compileShader(string(fSource), gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader %s: %w", fragPath, err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vShader)
	gl.AttachShader(program, fShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("link render program %s+%s", vertPath, fragPath)
	}

	gl.DeleteShader(vShader)
	gl.DeleteShader(fShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile: %v", log)
	}
	return shader, nil
}
