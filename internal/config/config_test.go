package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minin64/objexport/internal/cdata"
	"github.com/minin64/objexport/internal/export"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "objexport.cfg.json"), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"scene": "level1.json",
		"output": { "dir": "/tmp/out", "name": "level1" }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, "level1.json", GetString("scene"))
	assert.Equal(t, "/tmp/out", GetOutputConfig().Dir)
	assert.Equal(t, "level1", GetOutputConfig().Name)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, "./logs", GetString("logsDir"))
	assert.Equal(t, "scene.json", GetString("scene"))

	out := GetOutputConfig()
	assert.Equal(t, ".", out.Dir)
	assert.Equal(t, "export", out.Name)
	assert.Equal(t, true, out.Header)

	db := GetDBConfig()
	assert.Equal(t, false, db.Enabled)
	assert.Equal(t, "localhost", db.Host)
	assert.Equal(t, "5432", db.Port)
	assert.Equal(t, "objexport", db.Database)

	influx := GetInfluxConfig()
	assert.Equal(t, false, influx.Enabled)
	assert.Equal(t, "8086", influx.Port)
	assert.Equal(t, "http", influx.Protocol)
	assert.Equal(t, "objexport-metrics", influx.Org)

	otel := GetOTelConfig()
	assert.Equal(t, false, otel.Enabled)
	assert.Equal(t, "objexport", otel.ServiceName)
	assert.Equal(t, 5*time.Second, otel.BatchTimeout)
	assert.Equal(t, true, otel.Insecure)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetExportConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg, mode, err := GetExportConfig()
	require.NoError(t, err)
	assert.Equal(t, ModeProperty, mode)
	assert.Equal(t, cdata.F32, cfg.TranslationType)
	assert.Equal(t, cdata.F32, cfg.ScaleType)
	assert.Equal(t, export.Channels{Translation: true}, cfg.Channels)
	assert.Equal(t, 1.0, cfg.WorldScale)
	assert.Equal(t, export.AxisNone, cfg.Axis)
	assert.Empty(t, cfg.Objects)
}

func TestGetExportConfig_Full(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"export": {
			"mode": "animation",
			"variable": "door_anim",
			"translationType": "s16",
			"channels": { "translation": true, "rotation": true },
			"separateArrays": true,
			"hex": true,
			"frameStart": 0,
			"frameEnd": 60,
			"worldScale": 100,
			"axis": "z-up-to-y-up",
			"objects": [
				{
					"name": "Door.001",
					"varName": "door",
					"parentRelative": true,
					"struct": true,
					"structTypedef": "struct ObjectInit",
					"extras": [ { "name": "flags", "type": "u32", "value": "0" } ],
					"channels": { "rotation": true }
				},
				{ "name": "Fan" }
			]
		}
	}`)))

	cfg, mode, err := GetExportConfig()
	require.NoError(t, err)
	assert.Equal(t, ModeAnimation, mode)
	assert.Equal(t, "door_anim", cfg.Variable)
	assert.Equal(t, cdata.S16, cfg.TranslationType)
	assert.Equal(t, export.Channels{Translation: true, Rotation: true}, cfg.Channels)
	assert.True(t, cfg.SeparateArrays)
	assert.True(t, cfg.Hex)
	assert.Equal(t, 60, cfg.FrameEnd)
	assert.Equal(t, 100.0, cfg.WorldScale)
	assert.Equal(t, export.AxisZUpToYUp, cfg.Axis)

	require.Len(t, cfg.Objects, 2)
	door := cfg.Objects[0]
	assert.Equal(t, "Door.001", door.Object)
	assert.Equal(t, "door", door.VarName)
	assert.True(t, door.ParentRelative)
	assert.True(t, door.Struct)
	assert.Equal(t, "struct ObjectInit", door.StructTypedef)
	require.Len(t, door.Extras, 1)
	assert.Equal(t, export.ExtraField{Name: "flags", Type: "u32", Value: "0"}, door.Extras[0])
	require.NotNil(t, door.Channels)
	assert.Equal(t, export.Channels{Rotation: true}, *door.Channels)

	assert.Equal(t, "Fan", cfg.Objects[1].Object)
	assert.Nil(t, cfg.Objects[1].Channels)
}

func TestGetExportConfig_BadMode(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{ "export": { "mode": "bake" } }`)))

	_, _, err := GetExportConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export mode")
}

func TestGetExportConfig_BadType(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{ "export": { "translationType": "u64" } }`)))

	_, _, err := GetExportConfig()
	require.Error(t, err)
}

func TestGetExportConfig_BadAxis(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{ "export": { "axis": "sideways" } }`)))

	_, _, err := GetExportConfig()
	require.Error(t, err)
}
