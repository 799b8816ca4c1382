package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/skyweave/constellation/orbitrt/rt/core"
	"github.com/skyweave/constellation/orbitrt/rt/orbit"
)

// BufferWriter is the queue side of the manager: *wgpu.Queue satisfies it.
type BufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error
}

// BufferManager owns every buffer the kernels and passes bind.
type BufferManager struct {
	Device *wgpu.Device
	Queue  BufferWriter

	ElementsBuf   *wgpu.Buffer // orbital state, written once
	PositionsBuf  *wgpu.Buffer // propagate -> billboards, beams
	BeamsBuf      *wgpu.Buffer // beams -> ribbons
	FrameBuf      *wgpu.Buffer
	ShellsBuf     *wgpu.Buffer
	BeamParamsBuf *wgpu.Buffer
	GlyphsBuf     *wgpu.Buffer
	PostBuf       *wgpu.Buffer
	BlurHBuf      *wgpu.Buffer
	BlurVBuf      *wgpu.Buffer
	SphereVB      *wgpu.Buffer
	SphereIB      *wgpu.Buffer

	SphereIndexCount uint32
	BodyCount        int
	BeamCount        int
}

func NewBufferManager(device *wgpu.Device) *BufferManager {
	return &BufferManager{Device: device, Queue: device.GetQueue()}
}

// ensureBuffer grows buf to hold data and writes it. It reports whether the buffer was
// recreated, in which case any bind group referencing it is stale.
func (m *BufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, size uint64, usage wgpu.BufferUsage) (bool, error) {
	needed := max(size, uint64(len(data)))
	if needed%4 != 0 {
		needed += 4 - needed%4
	}
	needed = max(needed, 4)

	recreated := false
	if current := *buf; current == nil || current.GetSize() < needed {
		if current != nil {
			current.Release()
			*buf = nil
		}
		b, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  needed,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return false, fmt.Errorf("create %s buffer (%d bytes): %w", name, needed, err)
		}
		*buf = b
		recreated = true
	}
	if len(data) > 0 {
		if err := m.write(name, *buf, data); err != nil {
			return recreated, err
		}
	}
	return recreated, nil
}

func (m *BufferManager) write(name string, buf *wgpu.Buffer, data []byte) error {
	if err := m.Queue.WriteBuffer(buf, 0, data); err != nil {
		return fmt.Errorf("write %s buffer: %w", name, err)
	}
	return nil
}

// UploadConstellation writes the immutable per-body state and sizes the per-frame
// buffers. It is called once at startup, after the capacity check.
func (m *BufferManager) UploadConstellation(c *orbit.Constellation, beams orbit.BeamParams) error {
	m.BodyCount = c.Len()
	m.BeamCount = max(beams.MaxBeams, 0)

	verts, idx := SphereMesh(48, 96)
	vb, ib := EncodeMesh(verts, idx)
	m.SphereIndexCount = uint32(len(idx))

	uniform := wgpu.BufferUsageUniform
	storage := wgpu.BufferUsageStorage
	steps := []struct {
		name  string
		buf   **wgpu.Buffer
		data  []byte
		size  uint64
		usage wgpu.BufferUsage
	}{
		{"Orbital State", &m.ElementsBuf, EncodeElements(c.Elements), 0, storage},
		{"Positions", &m.PositionsBuf, nil, uint64(m.BodyCount) * PositionStride, storage},
		{"Beams", &m.BeamsBuf, nil, uint64(max(m.BeamCount, 1)) * BeamStride, storage},
		{"Frame Uniform", &m.FrameBuf, nil, core.FrameUniformSize, uniform},
		{"Shell Table", &m.ShellsBuf, EncodeShellTable(c.Shells), 0, uniform},
		{"Beam Params", &m.BeamParamsBuf, EncodeBeamParams(beams, m.BodyCount), 0, uniform},
		{"Glyphs", &m.GlyphsBuf, EncodeGlyphs(beams.Logo, beams.Cross), 0, storage},
		{"Post Params", &m.PostBuf, DefaultPostParams().Marshal(), 0, uniform},
		{"Blur H", &m.BlurHBuf, nil, BlurParamsSize, uniform},
		{"Blur V", &m.BlurVBuf, nil, BlurParamsSize, uniform},
		{"Sphere VB", &m.SphereVB, vb, 0, wgpu.BufferUsageVertex},
		{"Sphere IB", &m.SphereIB, ib, 0, wgpu.BufferUsageIndex},
	}
	for _, s := range steps {
		if _, err := m.ensureBuffer(s.name, s.buf, s.data, s.size, s.usage); err != nil {
			return err
		}
	}
	return nil
}

// UpdateFrame writes the per-frame uniform.
func (m *BufferManager) UpdateFrame(f *core.FrameUniform) error {
	return m.write("Frame Uniform", m.FrameBuf, f.Marshal())
}

// UpdateBeamParams writes the beam kernel uniform; the glyph table is fixed at upload.
func (m *BufferManager) UpdateBeamParams(p orbit.BeamParams) error {
	return m.write("Beam Params", m.BeamParamsBuf, EncodeBeamParams(p, m.BodyCount))
}

// UpdatePost writes bloom and tonemap parameters.
func (m *BufferManager) UpdatePost(p PostParams) error {
	return m.write("Post Params", m.PostBuf, p.Marshal())
}

// UpdateBlur writes the blur steps for targets of the given size.
func (m *BufferManager) UpdateBlur(w, h uint32) error {
	if err := m.write("Blur H", m.BlurHBuf, EncodeBlur(1, 0, w, h)); err != nil {
		return err
	}
	return m.write("Blur V", m.BlurVBuf, EncodeBlur(0, 1, w, h))
}

func (m *BufferManager) Release() {
	for _, b := range []**wgpu.Buffer{
		&m.ElementsBuf, &m.PositionsBuf, &m.BeamsBuf, &m.FrameBuf, &m.ShellsBuf,
		&m.BeamParamsBuf, &m.GlyphsBuf, &m.PostBuf, &m.BlurHBuf, &m.BlurVBuf,
		&m.SphereVB, &m.SphereIB,
	} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}
