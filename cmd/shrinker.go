package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/unixpickle/essentials"
	shrinker "go.hasen.dev/asset_shrinker"
)

// read from the tool's own directory when present
const configFileName = "shrink_images.yaml"

func main() {
	executable, err := os.Executable()
	essentials.Must(err)
	executable, err = filepath.EvalSymlinks(executable)
	essentials.Must(err)
	toolRoot := filepath.Dir(executable)

	cwd, err := os.Getwd()
	essentials.Must(err)

	cfg, err := shrinker.LoadConfig(filepath.Join(toolRoot, configFileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = shrinker.DefaultConfig()
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	assetsDir := filepath.Join(toolRoot, "..", "piggame", "assets")
	if cfg.AssetsDir != "" {
		assetsDir = cfg.AssetsDir
		if !filepath.IsAbs(assetsDir) {
			assetsDir = filepath.Join(toolRoot, assetsDir)
		}
	}

	os.Exit(shrinker.Run(os.Args[1:], shrinker.Options{
		Config:    cfg,
		Cwd:       cwd,
		AssetsDir: assetsDir,
		Stdout:    os.Stdout,
	}))
}
