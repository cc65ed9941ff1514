package freshproxy

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file. Command-line flags
// take precedence over values set here.
type FileConfig struct {
	IP            string `yaml:"ip"`
	Port          int    `yaml:"port"`
	AdminAddr     string `yaml:"adminAddr"`
	Capacity      int    `yaml:"capacity"`
	OriginPort    string `yaml:"originPort"`
	DialTimeout   int    `yaml:"dialTimeoutSec"`
	ReadTimeout   int    `yaml:"readTimeoutSec"`
	ClientTimeout int    `yaml:"clientTimeoutSec"`
}

// LoadConfig reads and parses the YAML configuration file.
func LoadConfig(filename string) (FileConfig, error) {
	var config FileConfig
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}
