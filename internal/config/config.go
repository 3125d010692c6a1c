package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/minin64/objexport/internal/cdata"
	"github.com/minin64/objexport/internal/export"
)

// Export modes selectable in the config file.
const (
	ModeProperty  = "property"
	ModeAnimation = "animation"
)

// OutputConfig holds file output settings.
type OutputConfig struct {
	Dir    string `json:"dir" mapstructure:"dir"`
	Name   string `json:"name" mapstructure:"name"`
	Header bool   `json:"header" mapstructure:"header"`
}

// DBConfig holds export manifest database settings.
type DBConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// InfluxConfig holds export metrics settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// OTelConfig holds OpenTelemetry log export settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

type channelsFile struct {
	Translation bool `mapstructure:"translation"`
	Rotation    bool `mapstructure:"rotation"`
	Scale       bool `mapstructure:"scale"`
}

type objectFile struct {
	Name           string              `mapstructure:"name"`
	VarName        string              `mapstructure:"varName"`
	ParentRelative bool                `mapstructure:"parentRelative"`
	Struct         bool                `mapstructure:"struct"`
	StructTypedef  string              `mapstructure:"structTypedef"`
	Extras         []export.ExtraField `mapstructure:"extras"`
	Channels       *channelsFile       `mapstructure:"channels"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("scene", "scene.json")

	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.name", "export")
	viper.SetDefault("output.header", true)

	viper.SetDefault("export.mode", ModeProperty)
	viper.SetDefault("export.translationType", "f32")
	viper.SetDefault("export.scaleType", "f32")
	viper.SetDefault("export.channels.translation", true)
	viper.SetDefault("export.worldScale", 1.0)
	viper.SetDefault("export.axis", "none")

	viper.SetDefault("db.enabled", false)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "objexport")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "objexport-metrics")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "objexport")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("objexport.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetOutputConfig returns the file output settings.
func GetOutputConfig() OutputConfig {
	return OutputConfig{
		Dir:    viper.GetString("output.dir"),
		Name:   viper.GetString("output.name"),
		Header: viper.GetBool("output.header"),
	}
}

// GetDBConfig returns the manifest database settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Enabled:  viper.GetBool("db.enabled"),
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetInfluxConfig returns the export metrics settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetExportConfig resolves the export block into a ready-to-run export
// configuration and the selected mode. Scalars go through viper getters so
// defaults apply; the object list has no defaults and unmarshals directly.
func GetExportConfig() (*export.Config, string, error) {
	mode := viper.GetString("export.mode")
	switch mode {
	case ModeProperty, ModeAnimation:
	default:
		return nil, "", fmt.Errorf("unknown export mode %q", mode)
	}

	tt, err := cdata.ParseDataType(viper.GetString("export.translationType"))
	if err != nil {
		return nil, "", fmt.Errorf("translation type: %w", err)
	}
	st, err := cdata.ParseDataType(viper.GetString("export.scaleType"))
	if err != nil {
		return nil, "", fmt.Errorf("scale type: %w", err)
	}
	axis, err := export.ParseAxisConvention(viper.GetString("export.axis"))
	if err != nil {
		return nil, "", err
	}

	var objects []objectFile
	if err := viper.UnmarshalKey("export.objects", &objects); err != nil {
		return nil, "", fmt.Errorf("error parsing export objects: %w", err)
	}

	cfg := &export.Config{
		Variable:        viper.GetString("export.variable"),
		TranslationType: tt,
		ScaleType:       st,
		Channels: export.Channels{
			Translation: viper.GetBool("export.channels.translation"),
			Rotation:    viper.GetBool("export.channels.rotation"),
			Scale:       viper.GetBool("export.channels.scale"),
		},
		SeparateArrays: viper.GetBool("export.separateArrays"),
		Hex:            viper.GetBool("export.hex"),
		ParentRelative: viper.GetBool("export.parentRelative"),
		FrameStart:     viper.GetInt("export.frameStart"),
		FrameEnd:       viper.GetInt("export.frameEnd"),
		WorldScale:     viper.GetFloat64("export.worldScale"),
		Axis:           axis,
	}
	for _, o := range objects {
		oc := export.ObjectConfig{
			Object:         o.Name,
			VarName:        o.VarName,
			ParentRelative: o.ParentRelative,
			Struct:         o.Struct,
			StructTypedef:  o.StructTypedef,
			Extras:         o.Extras,
		}
		if o.Channels != nil {
			ch := channels(*o.Channels)
			oc.Channels = &ch
		}
		cfg.Objects = append(cfg.Objects, oc)
	}
	return cfg, mode, nil
}

func channels(c channelsFile) export.Channels {
	return export.Channels{
		Translation: c.Translation,
		Rotation:    c.Rotation,
		Scale:       c.Scale,
	}
}
