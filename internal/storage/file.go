package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile encodes data with the codec for path and atomically replaces the
// file at path.
func WriteFile(path string, data []byte) error {
	return WriteFileWith(path, data, CodecForPath(path))
}

// WriteFileWith is WriteFile with an explicit codec.
func WriteFileWith(path string, data []byte, codec Codec) (err error) {
	encoded, err := codec.Compress(data)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(encoded); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the file at path and decodes it with the codec for path.
func ReadFile(path string) ([]byte, error) {
	return ReadFileWith(path, CodecForPath(path))
}

// ReadFileWith is ReadFile with an explicit codec.
func ReadFileWith(path string, codec Codec) ([]byte, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data, err := codec.Decompress(encoded)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
