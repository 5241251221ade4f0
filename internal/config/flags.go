package config

import (
	"flag"
	"strings"
)

// Flags holds the command-line overrides of one command.
type Flags struct {
	fs *flag.FlagSet

	Config  *string
	Debug   *bool
	Start   *int
	End     *int
	Output  *string
	FPS     *int
	GRF     *string
	LogFile *string
}

// RegisterFlags defines the shared configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:      fs,
		Config:  fs.String("config", "", "Path to config file"),
		Debug:   fs.Bool("debug", false, "Enable debug logging"),
		Start:   fs.Int("start", 0, "First frame to sample (inclusive)"),
		End:     fs.Int("end", 0, "Last frame to sample (inclusive)"),
		Output:  fs.String("o", "", "Output file"),
		FPS:     fs.Int("fps", 0, "Animation frames per second for RSM models"),
		GRF:     fs.String("grf", "", "Comma-separated GRF archives to read models from"),
		LogFile: fs.String("log", "", "Write logs to this file"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.Config
}

// apply copies flags that were set on the command line onto cfg.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.Debug {
				cfg.Logging.Level = "debug"
			}
		case "start":
			cfg.Export.FrameStart = *f.Start
		case "end":
			cfg.Export.FrameEnd = *f.End
		case "o":
			cfg.Export.Output = *f.Output
		case "fps":
			cfg.RSM.FPS = *f.FPS
		case "grf":
			cfg.Data.GRFPaths = splitList(*f.GRF)
		case "log":
			cfg.Logging.LogFile = *f.LogFile
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
