// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package arksave is the library's top-level entry point: it ties the
// format detector, the two generation-specific decoders, and the object
// container together behind a single Load call. Model extraction and
// export are layered on top by the models, export, and gps packages.
package arksave

import (
	"fmt"
	"log"
	"os"

	"github.com/savekit/arksave/internal/asa"
	"github.com/savekit/arksave/internal/ase"
	"github.com/savekit/arksave/internal/config"
	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/internal/detect"
	"github.com/savekit/arksave/internal/props"
	"github.com/savekit/arksave/internal/stdlib"
	"github.com/savekit/arksave/saveerr"
)

// LoadResult is the outcome of decoding one save file: the object graph
// plus the non-fatal parse errors accumulated along the way. Callers gate
// downstream use on ParseErrorCount rather than treating every recoverable
// property failure as reason to reject the whole file.
type LoadResult struct {
	Format          detect.Format_e
	Kind            detect.Kind_e
	Version         int32 // zero for ASA
	GameTime        float64
	Container       *container.Container_t
	ParseErrors     []props.ParseError_t
	ParseErrorCount int
	Warning         string
}

// Load reads path, sniffs its format, and dispatches to LoadASE or LoadASA.
// Header/name-table/SQLite-schema failures are returned as fatal errors;
// per-object/per-property failures are recorded on the result instead.
func Load(path string, cfg *config.Config) (*LoadResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if isFile, err := stdlib.IsFileExists(path); err != nil {
		return nil, fmt.Errorf("%w: %v", saveerr.ErrInvalidPath, err)
	} else if !isFile {
		return nil, fmt.Errorf("%w: %q is not a regular file", saveerr.ErrInvalidPath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", saveerr.ErrInvalidPath, err)
	}

	sniff, err := detect.Detect(data)
	if err != nil {
		return nil, err
	}

	switch sniff.Format {
	case detect.FormatASE:
		return LoadASE(data, sniff, cfg)
	case detect.FormatASA:
		return LoadASA(path, cfg)
	default:
		return nil, saveerr.ErrUnknownFormat
	}
}

// LoadASE decodes an already-loaded ASE byte blob, given the detector's
// sniff result (so callers who've already sniffed don't pay for it twice).
func LoadASE(data []byte, sniff detect.Result_t, cfg *config.Config) (*LoadResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	result, err := ase.Decode(data, sniff.Version)
	if err != nil {
		return nil, fmt.Errorf("ase: %w", err)
	}
	truncateIfCapped(result.Container, cfg)

	return &LoadResult{
		Format:          detect.FormatASE,
		Kind:            sniff.Kind,
		Version:         sniff.Version,
		GameTime:        result.Header.GameTime,
		Container:       result.Container,
		ParseErrors:     result.Errors.Entries(),
		ParseErrorCount: result.Errors.Count(),
		Warning:         sniff.Warning,
	}, nil
}

// LoadASA opens and decodes an ASA SQLite-container save.
func LoadASA(path string, cfg *config.Config) (*LoadResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	db, err := asa.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asa: %w", err)
	}
	defer db.Close()

	result, err := asa.Decode(db)
	if err != nil {
		return nil, fmt.Errorf("asa: %w", err)
	}
	truncateIfCapped(result.Container, cfg)

	return &LoadResult{
		Format:          detect.FormatASA,
		Kind:            detect.KindWorld,
		GameTime:        result.GameTime,
		Container:       result.Container,
		ParseErrors:     result.Errors.Entries(),
		ParseErrorCount: result.Errors.Count(),
	}, nil
}

// truncateIfCapped enforces the configured max-objects cap. The decoders
// materialize every object up front, so the cap is applied here as a
// post-decode trim of the container; it does not bound the decode work.
func truncateIfCapped(c *container.Container_t, cfg *config.Config) {
	if cfg.MaxObjects <= 0 || c.Len() <= cfg.MaxObjects {
		return
	}
	log.Printf("load: truncating object count from %d to configured max-objects %d\n", c.Len(), cfg.MaxObjects)
	c.Truncate(cfg.MaxObjects)
}
