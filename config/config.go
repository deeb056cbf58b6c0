// Package config loads the codec and rate-limit tunables of
// SPEC_FULL.md §4.14; it holds no listener settings. The JSON decoder is github.com/json-iterator/go
// configured as a drop-in for encoding/json: a var named json, bound to
// jsoniter.ConfigCompatibleWithStandardLibrary, shadowing the stdlib
// package name at the call sites.
package config

import (
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/spiral/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds the per-server settings a host passes through to
// mprpc.Serve as Options: the pack/unpack character encodings (spec's
// pack_encoding/unpack_encoding constructor parameters; codecs B/P
// always use UTF-8 regardless), and the optional per-connection
// request-rate ceiling of §4.16.
type Config struct {
	PackEncoding      string  `json:"pack_encoding"`
	UnpackEncoding    string  `json:"unpack_encoding"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

// Default matches the reference implementation's pack_encoding='utf-8'
// unpack_encoding='utf-8' defaults, with rate limiting disabled.
func Default() Config {
	return Config{PackEncoding: "utf-8", UnpackEncoding: "utf-8"}
}

// Load reads and decodes a JSON config file at path, starting from
// Default so an omitted field keeps its default rather than zeroing out.
func Load(path string) (Config, error) {
	const op = errors.Op("config load")
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.E(op, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.E(op, err)
	}
	return cfg, nil
}

// Decode reads Config as JSON from r.
func Decode(r io.Reader) (Config, error) {
	const op = errors.Op("config decode")
	cfg := Default()
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, errors.E(op, err)
	}
	return cfg, nil
}
