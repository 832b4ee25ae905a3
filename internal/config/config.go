// Package config implements load-or-create-default YAML configuration
// for the adapter's own ambient settings: listen address, frontend
// identity, and log verbosity. It never persists debug-session state,
// keeping with the adapter's "no persistence of debug sessions" non-goal.
// Pattern and YAML library adapted from delve's pkg/config.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

const (
	configDirName  = ".cdpjsdebugger"
	configFileName = "config.yml"
)

// Config defines the adapter's own startup configuration, loaded from
// (or written as a commented-out default to) the user's config file.
type Config struct {
	// ListenAddr is the TCP loopback address the adapter's HTTP/WebSocket
	// surface binds to.
	ListenAddr string `yaml:"listen-addr"`
	// FrontendName is the frontend identity used to synthesise discovery
	// URLs, target ids, and the debugger id reported on Debugger.enable.
	FrontendName string `yaml:"frontend-name"`
	// Log enables logging at all; Log-Output selects which named
	// components log, per internal/logflags.Setup.
	Log       bool   `yaml:"log"`
	LogOutput string `yaml:"log-output"`
}

// defaultConfig is returned whenever no config file can be loaded or
// parsed, mirroring delve's "never fail startup over a broken config".
func defaultConfig() *Config {
	return &Config{ListenAddr: "127.0.0.1:9222", FrontendName: "jsrunner"}
}

// LoadConfig attempts to populate a Config from the user's config.yml,
// creating a commented-out default file on first run. Any error along
// the way degrades to defaultConfig() rather than failing adapter
// startup — configuration is an ambient convenience, not a requirement.
func LoadConfig() *Config {
	return LoadConfigFrom("")
}

// LoadConfigFrom behaves like LoadConfig but reads from the given file
// path instead of the default location when path is non-empty, for the
// adapter binary's --config flag.
func LoadConfigFrom(path string) *Config {
	fullConfigFile := path
	if fullConfigFile == "" {
		if err := createConfigPath(); err != nil {
			fmt.Printf("could not create config directory: %v\n", err)
			return defaultConfig()
		}
		var err error
		fullConfigFile, err = GetConfigFilePath(configFileName)
		if err != nil {
			fmt.Printf("unable to get config file path: %v\n", err)
			return defaultConfig()
		}
	}

	f, err := os.Open(fullConfigFile)
	if err != nil {
		f, err = createDefaultConfig(fullConfigFile)
		if err != nil {
			fmt.Printf("error creating default config file: %v\n", err)
			return defaultConfig()
		}
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		fmt.Printf("unable to read config data: %v\n", err)
		return defaultConfig()
	}

	c := defaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		fmt.Printf("unable to decode config file: %v\n", err)
		return defaultConfig()
	}
	return c
}

// SaveConfig marshals and writes conf to the user's config file.
func SaveConfig(conf *Config) error {
	if err := createConfigPath(); err != nil {
		return err
	}
	fullConfigFile, err := GetConfigFilePath(configFileName)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}
	f, err := os.Create(fullConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(out)
	return err
}

func createDefaultConfig(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create config file: %v", err)
	}
	if err := writeDefaultConfig(f); err != nil {
		return nil, fmt.Errorf("unable to write default configuration: %v", err)
	}
	return f, nil
}

func writeDefaultConfig(f *os.File) error {
	_, err := f.WriteString(
		`# Configuration file for the CDP-to-V4 debugger adapter.
#
# This is the default configuration file. Available options are
# provided, but disabled. Delete the leading hash mark to enable an item.

# listen-addr: 127.0.0.1:9222

# frontend-name: jsrunner

# Uncomment to enable logging; log-output selects which named components
# log (comma-separated: mapper, bridge, wsserver, discovery, engine).
# log: true
# log-output: mapper,bridge
`)
	return err
}

func createConfigPath() error {
	p, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(p, 0700)
}

// GetConfigFilePath joins the user's home directory, the adapter's
// config directory name, and file into a full path.
func GetConfigFilePath(file string) (string, error) {
	userHomeDir := "."
	if dir, err := os.UserHomeDir(); err == nil {
		userHomeDir = dir
	}
	return path.Join(userHomeDir, configDirName, file), nil
}
