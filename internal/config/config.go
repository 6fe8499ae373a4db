// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"reflect"

	"github.com/savekit/arksave/internal/stdlib"
	"github.com/savekit/arksave/saveerr"
)

// Config holds the options that tune how a save is loaded and exported.
// It is loaded from a JSON file with sensible defaults, mirroring the way
// the original CLI layered a config file over built-in defaults.
type Config struct {
	// DefaultMap names the GPS affine-transform table to use when the
	// caller doesn't pick one explicitly.
	DefaultMap string `json:"DefaultMap,omitempty"`
	// MaxObjects caps how many objects a world decode will materialize.
	// Zero means unlimited.
	MaxObjects int `json:"MaxObjects,omitempty"`
	// StrictMode is loaded and stored, but no decoder or loader in this
	// module reads it; recoverable per-property errors stay recoverable.
	StrictMode bool         `json:"StrictMode,omitempty"`
	DebugFlags DebugFlags_t `json:"DebugFlags"`
}

type DebugFlags_t struct {
	LogFile       bool `json:"LogFile,omitempty"`
	LogTime       bool `json:"LogTime,omitempty"`
	TraceObjects  bool `json:"TraceObjects,omitempty"`
	TraceRLE      bool `json:"TraceRLE,omitempty"`
	DumpNameTable bool `json:"DumpNameTable,omitempty"`
}

const (
	ErrIsDirectory = saveerr.Error("is directory")
	ErrIsNotAFile  = saveerr.Error("is not a file")
)

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		MaxObjects: 0,
		StrictMode: false,
	}
}

// Load reads a JSON config file and overlays its non-zero fields onto the
// default configuration. A missing file is not an error — the defaults are
// returned unchanged, matching the CLI's "config file is optional" behavior.
func Load(name string, debug bool) (*Config, error) {
	if debug {
		log.Printf("[config] %q: loading configuration...\n", name)
	}
	cfg := Default()
	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) || os.IsNotExist(err) {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	}
	if isDir, err := stdlib.IsDirExists(name); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if isDir {
		return cfg, ErrIsDirectory
	}
	if isFile, err := stdlib.IsFileExists(name); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if !isFile {
		return cfg, ErrIsNotAFile
	}

	var tmp Config
	if data, err := os.ReadFile(name); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if err = json.Unmarshal(data, &tmp); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if debug {
		if nice, err := json.MarshalIndent(tmp, "", "  "); err == nil {
			log.Printf("[config] %s\n", nice)
		} else {
			log.Printf("[config] %q: loaded %s\n", name, string(data))
		}
	}

	copyNonZeroFields(&tmp, cfg)

	return cfg, nil
}

// copyNonZeroFields recursively copies non-zero fields from src to dst using reflection
func copyNonZeroFields(src, dst interface{}) {
	srcVal := reflect.ValueOf(src)
	dstVal := reflect.ValueOf(dst)

	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if dstVal.Kind() == reflect.Ptr {
		dstVal = dstVal.Elem()
	}

	if srcVal.Kind() != reflect.Struct || dstVal.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < srcVal.NumField(); i++ {
		srcField := srcVal.Field(i)
		dstField := dstVal.Field(i)

		if !srcField.CanInterface() || !dstField.CanSet() {
			continue
		}
		if srcField.IsZero() {
			continue
		}

		switch srcField.Kind() {
		case reflect.Struct:
			copyNonZeroFields(srcField.Interface(), dstField.Addr().Interface())
		default:
			dstField.Set(srcField)
		}
	}
}
