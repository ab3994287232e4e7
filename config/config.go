package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen           string  `yaml:"listen"`
	WebDir           string  `yaml:"web_dir"`
	FrameRate        float32 `yaml:"frame_rate"`
	DefaultAnimation string  `yaml:"default_animation"`
	Speed            float32 `yaml:"speed"`
	Loop             bool    `yaml:"loop"`
}

func Default() Config {
	return Config{
		Listen:    ":8000",
		WebDir:    "web",
		FrameRate: 60,
		Speed:     1,
		Loop:      true,
	}
}

var current = Default()

func Get() Config    { return current }
func Set(cfg Config) { current = cfg }

// Load reads a yaml config over the defaults. A missing file is not an
// error, the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, errors.Wrapf(err, "Cannot read config %q", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "Unmarshaling error")
	}
	return cfg, nil
}
