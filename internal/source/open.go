// Package source turns model files into scenes the exporter can evaluate.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-robj/internal/config"
	"github.com/Faultbox/midgard-robj/internal/logger"
	"github.com/Faultbox/midgard-robj/pkg/formats"
	"github.com/Faultbox/midgard-robj/pkg/robj"
)

// Archive is a read-only file store searched for inputs missing on disk.
type Archive interface {
	Contains(path string) bool
	Read(path string) ([]byte, error)
}

// Open loads the model at path and returns it as a scene. The format is
// chosen by extension: .rsm or .obj. Paths missing on disk are looked up
// in archive, which may be nil.
func Open(path string, cfg *config.Config, archive Archive) (robj.Scene, error) {
	data, origin, err := readInput(path, archive)
	if err != nil {
		return nil, err
	}

	base := path[strings.LastIndexAny(path, "/\\")+1:]
	name := strings.TrimSuffix(base, filepath.Ext(base))
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".rsm":
		model, err := formats.ParseRSM(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		logger.Debug("loaded RSM model",
			zap.String("path", path),
			zap.String("origin", origin),
			zap.Stringer("version", model.Version),
			zap.Int("nodes", len(model.Nodes)),
			zap.Int32("anim_length_ms", model.AnimLength))
		scene, err := NewRSMScene(name, model, cfg.RSM)
		if err != nil {
			return nil, err
		}
		return scene, nil
	case ".obj":
		obj, err := formats.ParseOBJBytes(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		logger.Debug("loaded OBJ model",
			zap.String("path", path),
			zap.String("origin", origin),
			zap.Int("objects", len(obj.Objects)),
			zap.Int("faces", obj.FaceCount()))
		scene, err := NewOBJScene(name, obj, cfg.OBJ)
		if err != nil {
			return nil, err
		}
		return scene, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInput, ext)
	}
}

// OpenAll opens every path and combines the scenes in argument order.
func OpenAll(paths []string, cfg *config.Config, archive Archive) (Combined, error) {
	scenes := make(Combined, 0, len(paths))
	for _, path := range paths {
		scene, err := Open(path, cfg, archive)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, scene)
	}
	return scenes, nil
}

func readInput(path string, archive Archive) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, "file", nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}

	if archive == nil || !archive.Contains(path) {
		return nil, "", fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	data, err = archive.Read(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s from archive: %w", path, err)
	}
	return data, "archive", nil
}
