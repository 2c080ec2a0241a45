package asset_shrinker

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
)

type Options struct {
	Config Config
	// nil means ImageCodec
	Codec Codec

	// Working directory that relative arguments are resolved against.
	Cwd string
	// Images in AssetsDir are processed when no arguments are given, and when
	// it exists every result is written into it.
	AssetsDir string

	Stdout io.Writer
}

// Run executes one batch and returns the process exit status.
func Run(args []string, opts Options) int {
	out := opts.Stdout

	if err := opts.Config.Validate(); err != nil {
		fmt.Fprintln(out, "invalid config:", err)
		return 1
	}

	assetsDir := ""
	if isDir(opts.AssetsDir) {
		assetsDir = resolve(opts.AssetsDir)
	}

	targets, err := CollectTargets(args, opts.Cwd, assetsDir)
	if errors.Is(err, ErrNoAssetsDir) {
		fmt.Fprintln(out, "usage: shrinker [dir or file ...]")
		fmt.Fprintf(out, "with no arguments the images in %s are processed\n", opts.AssetsDir)
		return 1
	}
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	if len(targets) == 0 {
		fmt.Fprintln(out, "no images found, nothing to do")
		return 0
	}

	dstDir := assetsDir
	if dstDir == "" {
		dstDir = filepath.Dir(targets[0])
	}

	cfg := opts.Config
	fmt.Fprintf(out, "processing %d files (max_side=%d, colors=%d)\n", len(targets), cfg.MaxSide, cfg.Colors)

	proc := NewProcessor(cfg, opts.Codec, dstDir, out)
	results := proc.Shrink(UniqueSorted(targets))

	if stats := AccumulateStats(results); stats.Count > 0 {
		fmt.Fprintln(out, stats.ShrunkString())
	}
	fmt.Fprintln(out, "Done")
	return 0
}
