package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xtalsgo/xtals"
	"github.com/xtalsgo/xtals/xerr"
	"go.uber.org/zap/zapcore"
)

const tomlConf = `
[crystal]
check_overlap = false
overlap_tol = 0.25
remove_duplicates = true
cpus = 3

[logging]
level = "warn"
`

const yamlConf = `
crystal:
  net_charge_tol: 0.001
  wrap_coords: false
logging:
  level: ""
`

func TestDecodeTOML(Te *testing.T) {
	F, err := Decode(strings.NewReader(tomlConf), "toml")
	require.NoError(Te, err)
	o, err := F.Options()
	require.NoError(Te, err)
	assert.False(Te, o.CheckOverlap)
	assert.Equal(Te, 0.25, o.OverlapTol)
	assert.True(Te, o.RemoveDuplicates)
	assert.Equal(Te, 3, o.Cpus())
	//not in the file
	def := xtals.DefaultOptions()
	assert.Equal(Te, def.CheckNeutrality, o.CheckNeutrality)
	assert.Equal(Te, def.NetChargeTol, o.NetChargeTol)
	assert.Equal(Te, def.ConvertToP1, o.ConvertToP1)
	assert.Equal(Te, def.SymmetryTol, o.SymmetryTol)

	log := o.Logger()
	assert.False(Te, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(Te, log.Core().Enabled(zapcore.WarnLevel))
}

func TestDecodeYAML(Te *testing.T) {
	F, err := Decode(strings.NewReader(yamlConf), "yml")
	require.NoError(Te, err)
	o, err := F.Options()
	require.NoError(Te, err)
	assert.Equal(Te, 0.001, o.NetChargeTol)
	assert.False(Te, o.WrapCoords)
	assert.True(Te, o.CheckOverlap)
	assert.False(Te, o.Logger().Core().Enabled(zapcore.ErrorLevel))

	F, err = Decode(strings.NewReader(""), "yaml")
	require.NoError(Te, err)
	o, err = F.Options()
	require.NoError(Te, err)
	assert.Equal(Te, xtals.DefaultOptions().OverlapTol, o.OverlapTol)
}

func TestBadConfig(Te *testing.T) {
	_, err := Decode(strings.NewReader(tomlConf), "ini")
	assert.True(Te, errors.Is(err, xerr.Config))
	_, err = Decode(strings.NewReader("[crystal\noverlap_tol = "), "toml")
	assert.True(Te, errors.Is(err, xerr.Config))

	F, err := Decode(strings.NewReader("crystal:\n  overlap_tol: -1\n"), "yaml")
	require.NoError(Te, err)
	_, err = F.Options()
	assert.True(Te, errors.Is(err, xerr.IncompatibleOptions))

	F, err = Decode(strings.NewReader("[logging]\nlevel = \"loud\"\n"), "toml")
	require.NoError(Te, err)
	_, err = F.Options()
	assert.True(Te, errors.Is(err, xerr.Config))

	_, err = Load(filepath.Join(Te.TempDir(), "missing.toml"))
	assert.True(Te, errors.Is(err, xerr.Config))
}

func TestEncodeLoad(Te *testing.T) {
	o := xtals.DefaultOptions()
	o.OverlapTol = 0.3
	o.IncludeZeroCharges = true
	o.Cpus(2)
	for _, format := range []string{"toml", "yaml"} {
		var buf bytes.Buffer
		require.NoError(Te, Encode(&buf, FromOptions(o, Logging{Level: "info", Development: true}), format))
		path := filepath.Join(Te.TempDir(), "xtals."+format)
		require.NoError(Te, os.WriteFile(path, buf.Bytes(), 0o644))
		F, err := Load(path)
		require.NoError(Te, err, format)
		back, err := F.Options()
		require.NoError(Te, err, format)
		assert.Equal(Te, 0.3, back.OverlapTol, format)
		assert.True(Te, back.IncludeZeroCharges, format)
		assert.Equal(Te, 2, back.Cpus(), format)
		assert.Equal(Te, "info", F.Logging.Level, format)
		assert.True(Te, F.Logging.Development, format)
	}
}
