package config

import (
	"os"

	"github.com/kkyr/fig"
)

const EnvPrefix = "LERCHE"

// File is the config file name searched for in the config dirs.
const File = "config.yaml"

// LoadConfig loads a configuration file into the given struct.
// The dir param specifies a custom directory searched for config.yaml.
// Reads and puts environment variables with the prefix LERCHE_.
// Params from the config should be in uppercase separated with _.
func LoadConfig(config any, dir string) error {
	dirs := []string{dir}
	if dir == "" {
		dirs = append(dirs, ".", "configs", "../../../configs")
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, home+"/.lerche")
		}
	}
	return fig.Load(config, fig.File(File), fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
}
