package shaders

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrependsCommon(t *testing.T) {
	src := Default()
	for name, code := range map[string]string{
		"propagate":  src.Propagate,
		"beams":      src.Beams,
		"billboards": src.Billboards,
		"tonemap":    src.Tonemap,
		"ground":     src.Ground,
	} {
		assert.True(t, strings.HasPrefix(code, CommonWGSL), name)
	}
	assert.Equal(t, TextWGSL, src.Text)
}

func TestEntryPoints(t *testing.T) {
	src := Default()
	for _, code := range []string{src.Propagate, src.Beams} {
		assert.Contains(t, code, "@compute @workgroup_size(256)")
		assert.Contains(t, code, "fn main(")
	}
	for _, code := range []string{src.Billboards, src.BeamRibbons, src.Background, src.Ground,
		src.Planet, src.Atmosphere, src.BloomThreshold, src.BloomBlur, src.Tonemap, src.Text} {
		assert.Contains(t, code, "fn vs_main(")
		assert.Contains(t, code, "fn fs_main(")
	}
}

func TestLoadFSOverrides(t *testing.T) {
	fsys := fstest.MapFS{
		"tonemap.wgsl": {Data: []byte("// patched tonemap")},
	}
	src, err := LoadFS(fsys, false)
	require.NoError(t, err)
	assert.Equal(t, Compose(CommonWGSL, "// patched tonemap"), src.Tonemap)
	assert.Equal(t, Default().Propagate, src.Propagate)
}

func TestLoadFSCommonOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"common.wgsl": {Data: []byte("// prelude")},
	}
	src, err := LoadFS(fsys, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src.Beams, "// prelude\n"))
	assert.Equal(t, TextWGSL, src.Text)
}

func TestLoadEmptyDir(t *testing.T) {
	src, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), src)
}

func TestLoadMissingFilesFallBack(t *testing.T) {
	src, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), src)
}

func TestFiles(t *testing.T) {
	files := Files()
	assert.Equal(t, "common.wgsl", files[0])
	assert.Contains(t, files, "bloom_blur.wgsl")
	assert.NotContains(t, files, "text.wgsl")
}

func TestGroundHorizonCullIsShared(t *testing.T) {
	const fn = "fn below_horizon("
	assert.Equal(t, 1, strings.Count(CommonWGSL, fn))
	for name, body := range map[string]string{
		"billboards":   BillboardsWGSL,
		"beam ribbons": BeamRibbonsWGSL,
	} {
		assert.NotContains(t, body, fn, name)
		assert.Contains(t, body, "frame.ground != 0u && below_horizon(", name)
	}
}
