package asset_shrinker

import (
	"fmt"
	"io"
	"os"
)

// copyFile copies inputPath to outputPath, keeping the permission bits and the
// modification time of the input.
func copyFile(inputPath string, outputPath string) error {
	inputFile, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("copy failed, could not open input file: %w", err)
	}
	defer inputFile.Close()

	info, err := inputFile.Stat()
	if err != nil {
		return fmt.Errorf("copy failed, could not stat input file: %w", err)
	}

	outFile, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("copy failed, could not create output file: %w", err)
	}

	if _, err = io.Copy(outFile, inputFile); err != nil {
		outFile.Close()
		os.Remove(outputPath)
		return fmt.Errorf("copy failed: %w", err)
	}
	if err = outFile.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("copy failed: %w", err)
	}

	os.Chtimes(outputPath, info.ModTime(), info.ModTime())
	return nil
}
