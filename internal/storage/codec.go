// Package storage reads and writes calibration files, optionally compressed.
//
// The codec is chosen from the file extension, so a configuration saved as
// "room.cal.zst" is transparently zstd-compressed. Writes are atomic: data
// goes to a temporary file in the target directory that is renamed over the
// destination only once it has been written completely.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownCodec indicates a codec name that is not registered.
var ErrUnknownCodec = errors.New("storage: unknown codec")

// Codec compresses and decompresses whole files.
//
// Implementations are stateless values and safe for concurrent use.
type Codec interface {
	// Compress returns the encoded form of data. The input is not modified.
	Compress(data []byte) ([]byte, error)

	// Decompress reverses Compress.
	Decompress(data []byte) ([]byte, error)

	// Name identifies the codec.
	Name() string
}

var builtinCodecs = []struct {
	ext   string
	codec Codec
}{
	{extGzip, GzipCodec{}},
	{extZstd, ZstdCodec{}},
	{extLZ4, LZ4Codec{}},
	{extS2, S2Codec{}},
}

// CodecForPath returns the codec matching the extension of path. Unknown
// extensions are stored uncompressed.
func CodecForPath(path string) Codec {
	ext := strings.ToLower(filepath.Ext(path))
	for _, b := range builtinCodecs {
		if b.ext == ext {
			return b.codec
		}
	}
	return PlainCodec{}
}

// CodecByName returns the codec with the given name.
func CodecByName(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == nameNone {
		return PlainCodec{}, nil
	}
	for _, b := range builtinCodecs {
		if b.codec.Name() == name {
			return b.codec, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// PlainCodec stores data unchanged.
type PlainCodec struct{}

var _ Codec = PlainCodec{}

// Compress implements Codec.
func (PlainCodec) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress implements Codec.
func (PlainCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name implements Codec.
func (PlainCodec) Name() string { return nameNone }
