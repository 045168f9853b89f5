// Package glbackend renders panoramas with OpenGL 4.1 core into an
// offscreen framebuffer. It owns the GL context and every GL object; no
// GL state lives outside the Backend value.
package glbackend

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/panosim/internal/backend"
	"github.com/Faultbox/panosim/internal/logger"
	"github.com/Faultbox/panosim/pkg/math"
)

// Unit cube corners, scaled to world size by the model transform.
var cubeVertices = []float32{
	-1.0, 1.0, 1.0,
	-1.0, -1.0, 1.0,
	1.0, -1.0, 1.0,
	1.0, 1.0, 1.0,
	-1.0, 1.0, -1.0,
	-1.0, -1.0, -1.0,
	1.0, -1.0, -1.0,
	1.0, 1.0, -1.0,
}

// Two triangles per cube face.
var cubeIndices = []uint16{
	0, 1, 2, 0, 2, 3,
	3, 2, 6, 3, 6, 7,
	7, 6, 5, 7, 5, 4,
	4, 5, 1, 4, 1, 0,
	0, 3, 7, 0, 7, 4,
	1, 2, 6, 1, 6, 5,
}

var cubeTargets = [backend.FaceCount]uint32{
	backend.FacePosX: gl.TEXTURE_CUBE_MAP_POSITIVE_X,
	backend.FaceNegX: gl.TEXTURE_CUBE_MAP_NEGATIVE_X,
	backend.FacePosY: gl.TEXTURE_CUBE_MAP_POSITIVE_Y,
	backend.FaceNegY: gl.TEXTURE_CUBE_MAP_NEGATIVE_Y,
	backend.FacePosZ: gl.TEXTURE_CUBE_MAP_POSITIVE_Z,
	backend.FaceNegZ: gl.TEXTURE_CUBE_MAP_NEGATIVE_Z,
}

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("glbackend: closed")

// Backend implements backend.Backend on OpenGL.
type Backend struct {
	log *zap.Logger

	ctx *glContext
	fb  *framebuffer

	program    uint32
	pvmUniform int32
	vao        uint32
	vbo        uint32
	ibo        uint32
}

// New creates a GL context and all resources for rendering at the given
// resolution. It matches backend.Factory.
func New(width, height int) (backend.Backend, error) {
	b := &Backend{log: logger.Named("gl")}

	var err error
	b.ctx, err = newContext(width, height, b.log)
	if err != nil {
		return nil, err
	}

	if err := gl.Init(); err != nil {
		b.ctx.destroy()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	b.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	if err := b.setup(int32(width), int32(height)); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) setup(width, height int32) error {
	var err error
	b.fb, err = newFramebuffer(width, height)
	if err != nil {
		return err
	}

	gl.Viewport(0, 0, width, height)
	gl.ClearColor(1.0, 0.0, 0.0, 1.0)
	gl.ClearDepth(1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	b.program, err = compileProgram(cubeVertexShader, cubeFragmentShader)
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}
	gl.UseProgram(b.program)
	b.pvmUniform = uniform(b.program, "PVM")
	gl.Uniform1i(uniform(b.program, "cubemap"), 0)

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, unsafe.Pointer(&cubeVertices[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &b.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(cubeIndices)*2, unsafe.Pointer(&cubeIndices[0]), gl.STATIC_DRAW)

	b.log.Debug("cube created",
		zap.Uint32("vao", b.vao),
		zap.Uint32("vbo", b.vbo),
		zap.Uint32("ibo", b.ibo),
	)
	return nil
}

// UploadCubemap uploads six faces as one cube texture.
func (b *Backend) UploadCubemap(faces backend.Faces) (backend.TextureID, error) {
	if b.ctx == nil {
		return 0, ErrClosed
	}

	var tex uint32
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	for i, face := range faces {
		if face == nil {
			gl.DeleteTextures(1, &tex)
			return 0, fmt.Errorf("face %d is nil", i)
		}
		w, h := face.Rect.Dx(), face.Rect.Dy()
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(face.Stride/4))
		gl.TexImage2D(cubeTargets[i], 0, gl.RGB, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	if !gl.IsTexture(tex) {
		return 0, fmt.Errorf("cubemap upload failed")
	}
	return backend.TextureID(tex), nil
}

// IsTexture reports whether id names a live GL texture.
func (b *Backend) IsTexture(id backend.TextureID) bool {
	if b.ctx == nil || id == 0 {
		return false
	}
	return gl.IsTexture(uint32(id))
}

// DeleteTexture releases a cube texture.
func (b *Backend) DeleteTexture(id backend.TextureID) {
	if b.ctx == nil || id == 0 {
		return
	}
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}

// Draw renders the cube with tex bound and reads the frame back.
func (b *Backend) Draw(projection, view, model math.Mat4, tex backend.TextureID) (*image.RGBA, error) {
	if b.ctx == nil {
		return nil, ErrClosed
	}

	pvm := projection.Mul(view).Mul(model)

	b.fb.bind()
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(b.program)
	gl.UniformMatrix4fv(b.pvmUniform, 1, false, pvm.Ptr())
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, uint32(tex))
	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(cubeIndices)), gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("draw failed: gl error 0x%x", code)
	}
	return b.fb.readPixels(), nil
}

// Close releases all GL objects and the context. Safe to call twice.
func (b *Backend) Close() error {
	if b.ctx == nil {
		return nil
	}
	b.log.Info("closing gl backend")

	if b.ibo != 0 {
		gl.DeleteBuffers(1, &b.ibo)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
	}
	if b.fb != nil {
		b.fb.destroy()
	}
	b.ctx.destroy()
	b.ctx = nil
	return nil
}
