package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"veil/stegano/img"
	"veil/util"
)

/*
 * Server configuration - configuration of the local API server.
 * Hiding and revealing are CPU-bound, so the number of requests working on
 * images at the same time is capped by MaxWorkers.
 */
type ServerConfiguration struct {
	Address       string `yaml:"address"`
	MaxUploadSize int64  `yaml:"max_upload_size"` // bytes, per request
	MaxPixels     uint64 `yaml:"max_pixels"`      // per decoded image
	MaxWorkers    int    `yaml:"max_workers"`
}

/*
 * Configuration for steganography: which lossless format stego images are
 * written in when the carrier came in a lossy one, whether payloads are
 * compressed before hiding, and how far a hidden payload may expand.
 */
type SteganoConfig struct {
	OutputFormat        string `yaml:"output_format"`
	Compress            bool   `yaml:"compress"`
	MaxDecompressedSize int64  `yaml:"max_decompressed_size"`
}

type FullConfig struct {
	Logger       util.LoggerInfo     `yaml:"logger_config"`
	ServerConfig ServerConfiguration `yaml:"local_server_config"`
	StegConfig   SteganoConfig       `yaml:"steganography_config"`
}

func DefaultConfig() *FullConfig {
	return &FullConfig{
		Logger: util.LoggerInfo{
			IsColored: true,
			SaveTime:  true,
			Mode:      util.AllModes,
		},
		ServerConfig: ServerConfiguration{
			Address:       "127.0.0.1:8080",
			MaxUploadSize: 32 << 20,
			MaxPixels:     img.DefaultMaxPixels,
			MaxWorkers:    4,
		},
		StegConfig: SteganoConfig{
			OutputFormat:        "png",
			MaxDecompressedSize: util.MaxDecompressedSize,
		},
	}
}

/*
 * Functions for loading and saving configuration in YAML format.
 * Keys missing from the file keep their default values.
 */
func LoadConfig(filename string) (*FullConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	conf := DefaultConfig()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func SaveConfig(filename string, c *FullConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}
