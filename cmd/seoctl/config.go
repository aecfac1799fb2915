// Config loading for the seoctl CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = ".seoctl"
	configFileType = "yaml"

	cfgKeyServerURL = "server_url"
	cfgKeyAPIKey    = "api_key"

	defaultServerURL = "http://localhost:8080"
)

// defaultConfigYAML is the content written by `seoctl init`.
const defaultConfigYAML = `# seoctl configuration

# Base URL of the SEO Pilot server
server_url: http://localhost:8080

# API access key (matches the server's API_ACCESS_KEY)
# api_key:
`

// loadConfig reads the config file and environment. A missing config file
// is not an error: defaults plus SEOCTL_* environment variables still work.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyServerURL, defaultServerURL)
	v.SetEnvPrefix("SEOCTL")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		if path == "" && os.IsNotExist(err) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// defaultConfigPath is where `seoctl init` writes its config.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configFileName+"."+configFileType), nil
}
