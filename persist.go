package calibrator

import (
	"fmt"

	"github.com/tphakala/go-calibrator/internal/storage"
)

// SaveConfiguration writes Configuration to path. The file is compressed
// according to its extension (.gz, .zst, .lz4 or .s2) and replaced atomically.
func (c *Calibrator) SaveConfiguration(path string) error {
	return saveText(path, c.Configuration())
}

func saveText(path, configuration string) error {
	if err := storage.WriteFile(path, []byte(configuration)); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	return nil
}

// LoadConfiguration reads a file written by SaveConfiguration and applies it
// with SetConfiguration.
func (c *Calibrator) LoadConfiguration(path string) error {
	data, err := storage.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	return c.SetConfiguration(string(data))
}

// SaveConfigurationAs writes Configuration to path with the named codec
// ("none", "gzip", "zstd", "lz4" or "s2") regardless of the extension.
func (c *Calibrator) SaveConfigurationAs(path, codec string) error {
	cd, err := storage.CodecByName(codec)
	if err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	if err := storage.WriteFileWith(path, []byte(c.Configuration()), cd); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	return nil
}
