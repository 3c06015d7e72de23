package attdyn

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _attdynconfig{}
)

// _attdynconfig is a "hidden" struct, just use `attdynConfig`
type _attdynconfig struct {
	outputDir string
	stepSize  float64
}

// attdynConfig returns the attdyn configuration, loading it on first use from
// the conf.toml in the directory named by the ATTDYN_CONFIG environment
// variable.
func attdynConfig() _attdynconfig {
	if cfgLoaded {
		return config
	}
	// Load the configuration file
	confPath := os.Getenv("ATTDYN_CONFIG")
	if confPath == "" {
		panic("environment variable `ATTDYN_CONFIG` is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	outputDir := viper.GetString("general.output_path")
	stepSize := viper.GetFloat64("propagation.step_size")
	if stepSize <= 0 {
		stepSize = StepSize
	}

	cfgLoaded = true
	config = _attdynconfig{outputDir: outputDir, stepSize: stepSize}
	return config
}

// ConfiguredStepSize returns the propagation step size from the configuration
// file, in seconds, falling back on the default step size.
func ConfiguredStepSize() float64 {
	return attdynConfig().stepSize
}
