// robjexport converts RSM and OBJ models into ROBJ vertex-animation files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-robj/internal/assets"
	"github.com/Faultbox/midgard-robj/internal/config"
	"github.com/Faultbox/midgard-robj/internal/logger"
	"github.com/Faultbox/midgard-robj/internal/preview"
	"github.com/Faultbox/midgard-robj/internal/source"
	"github.com/Faultbox/midgard-robj/pkg/robj"
)

// errUsage marks argument errors; the usage text has already been printed.
var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	command := "export"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") && !isInput(args[0]) {
		command, args = args[0], args[1:]
	}

	switch command {
	case "export":
		return cmdExport(args, stdout, stderr)
	case "preview":
		return cmdPreview(args, stdout, stderr)
	case "layout":
		return cmdLayout(args, stdout, stderr)
	case "init-config":
		return cmdInitConfig(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return errUsage
	}
}

// isInput reports whether arg names a model rather than a command.
func isInput(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".rsm", ".obj":
		return true
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `robjexport - ROBJ vertex-animation exporter

Usage:
  robjexport [command] [options] <model...>

Commands:
  export <model...>           Sample every frame and write an .robj file (default)
  preview -frame N <model...> Write one sampled frame as a .glb file
  layout -triangles N         Print the byte layout of an .robj file
  init-config [path]          Write the default configuration file

Options (export, preview):
  -start N, -end N   Inclusive frame range
  -o FILE            Output file
  -fps N             RSM animation frames per second
  -grf a.grf,b.grf   Archives searched for models missing on disk
  -config FILE       Configuration file
  -debug, -log FILE  Logging

Examples:
  robjexport -start 0 -end 59 -o tree.robj data/model/tree.rsm
  robjexport preview -frame 12 -grf data.grf data/model/windmill.rsm
  robjexport layout -triangles 1200 -start 0 -end 29`)
}

// setup loads configuration for a command and initializes logging.
func setup(fs *flag.FlagSet, flags *config.Flags, args []string) (*config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

// openScene opens the configured archives and every input model.
// The caller closes the returned manager.
func openScene(cfg *config.Config, inputs []string) (robj.Scene, *assets.Manager, error) {
	manager, err := assets.Open(cfg.Data.GRFPaths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opened archives", zap.Strings("paths", cfg.Data.GRFPaths))

	scene, err := source.OpenAll(inputs, cfg, manager)
	if err != nil {
		manager.Close()
		return nil, nil, err
	}
	return scene, manager, nil
}

// tracedScene debug-logs every frame evaluation.
func tracedScene(scene robj.Scene) robj.Scene {
	return robj.SceneFunc(func(frame int) ([]robj.Object, error) {
		objects, err := scene.EvaluateAt(frame)
		logger.Debug("evaluated frame", zap.Int("frame", frame), zap.Int("objects", len(objects)))
		return objects, err
	})
}

func cmdExport(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Usage: robjexport export [options] <model...>")
		return errUsage
	}

	scene, manager, err := openScene(cfg, fs.Args())
	if err != nil {
		return err
	}
	defer manager.Close()

	start := time.Now()
	result, err := robj.Export(tracedScene(scene), cfg.Export.FrameStart, cfg.Export.FrameEnd, cfg.Export.Output)
	if err != nil {
		logger.Error("export failed", zap.Error(err))
		return err
	}

	logger.Info("export complete",
		zap.String("path", cfg.Export.Output),
		zap.Int("objects", result.Objects),
		zap.Int("triangles", result.Triangles),
		zap.Int("frames", result.Frames),
		zap.Int64("bytes", result.Bytes),
		zap.Duration("elapsed", time.Since(start)))

	fmt.Fprintf(stdout, "Wrote %s: %d objects, %d triangles, %d frames (%d bytes)\n",
		cfg.Export.Output, result.Objects, result.Triangles, result.Frames, result.Bytes)
	return nil
}

func cmdPreview(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	frame := fs.Int("frame", 0, "Frame to sample")
	flags := config.RegisterFlags(fs)
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Usage: robjexport preview -frame N [options] <model...>")
		return errUsage
	}

	scene, manager, err := openScene(cfg, fs.Args())
	if err != nil {
		return err
	}
	defer manager.Close()

	out := cfg.Export.Output
	if ext := filepath.Ext(out); !strings.EqualFold(ext, ".glb") {
		out = strings.TrimSuffix(out, ext) + ".glb"
	}

	triangles, err := preview.WriteFrame(scene, *frame, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s: frame %d, %d triangles\n", out, *frame, triangles)
	return nil
}

func cmdLayout(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	triangles := fs.Int("triangles", 0, "Triangle count")
	start := fs.Int("start", 0, "First frame (inclusive)")
	end := fs.Int("end", 0, "Last frame (inclusive)")
	maxFrames := fs.Int("frames", 4, "Frames to list (0 = all)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *start > *end {
		return fmt.Errorf("%w: %d > %d", robj.ErrInvalidFrameRange, *start, *end)
	}
	header, err := robj.NewHeader(*triangles, *start, *end)
	if err != nil {
		return err
	}
	layout := header.Layout()

	fmt.Fprintf(stdout, "Triangles:   %d\n", header.Triangles)
	fmt.Fprintf(stdout, "Frames:      %d (%d..%d)\n", layout.Frames, header.FrameStart, header.FrameEnd)
	fmt.Fprintf(stdout, "Size:        %d bytes\n", layout.Size())
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%-12s %12s %12s\n", "Section", "Offset", "Floats")
	fmt.Fprintf(stdout, "%-12s %12d %12s\n", "header", 0, "-")
	fmt.Fprintf(stdout, "%-12s %12d %12d\n", "uv", layout.UVOffset(), layout.UVFloats())

	listed := layout.Frames
	if *maxFrames > 0 && int64(*maxFrames) < listed {
		listed = int64(*maxFrames)
	}
	for i := int64(0); i < listed; i++ {
		frame := int64(header.FrameStart) + i
		fmt.Fprintf(stdout, "%-12s %12d %12d\n", fmt.Sprintf("normals %d", frame), layout.NormalsOffset(i), layout.TableFloats())
		fmt.Fprintf(stdout, "%-12s %12d %12d\n", fmt.Sprintf("positions %d", frame), layout.PositionsOffset(i), layout.TableFloats())
	}
	if listed < layout.Frames {
		fmt.Fprintf(stdout, "... %d more frames\n", layout.Frames-listed)
	}
	return nil
}

func cmdInitConfig(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("init-config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("f", false, "Overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	path := "robjexport.yaml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -f to overwrite)", path)
	}

	if err := config.Default().SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
