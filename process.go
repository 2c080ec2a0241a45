package asset_shrinker

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const KB = 1 << 10

// BackupSuffix is appended to the full file name of a backed up original.
const BackupSuffix = ".bak"

func NewProcessor(cfg Config, codec Codec, dstDir string, out io.Writer) *Processor {
	if codec == nil {
		codec = ImageCodec{}
	}
	return &Processor{
		Config: cfg,
		Codec:  codec,
		DstDir: dstDir,
		Out:    out,
		Log:    log.New(out, "", 0),
	}
}

// ProcessMediaFile shrinks a single image. Failures are recorded on the
// returned MediaFile and logged; they never stop the caller's batch.
func ProcessMediaFile(proc *Processor, inputPath string) MediaFile {
	mediaFile := MediaFile{
		Path: inputPath,
		Name: filepath.Base(inputPath),
		Type: guessMediaType(inputPath),
	}
	if mediaFile.Type == UnknownType {
		mediaFile.Stage = Ignored
		return mediaFile
	}

	if err := shrinkImage(proc, &mediaFile); err != nil {
		mediaFile.Stage = ProcessingError
		mediaFile.Error = err
		proc.Log.Printf("  skipping %s: %v", inputPath, err)
		return mediaFile
	}

	mediaFile.Stage = ProcessingSuccess
	fmt.Fprintln(proc.Out, proc.fileStats(&mediaFile))
	return mediaFile
}

func shrinkImage(proc *Processor, mediaFile *MediaFile) error {
	cfg := proc.Config

	img, err := proc.Codec.Decode(mediaFile.Path)
	if err != nil {
		return err
	}

	inputFileInfo, err := os.Stat(mediaFile.Path)
	if err != nil {
		return fmt.Errorf("can't find input file: %w", err)
	}
	mediaFile.Size = int(inputFileInfo.Size())
	size := img.Bounds().Size()
	mediaFile.Width, mediaFile.Height = size.X, size.Y

	if w, h, ok := FitWithin(size.X, size.Y, cfg.MaxSide); ok {
		img = proc.Codec.Resize(img, w, h)
	}

	paletted := proc.Codec.Quantize(img, cfg.Colors)
	shrunkSize := paletted.Bounds().Size()
	mediaFile.ShrunkWidth, mediaFile.ShrunkHeight = shrunkSize.X, shrunkSize.Y
	mediaFile.Colors = len(paletted.Palette)

	outputPath := filepath.Join(proc.DstDir, mediaFile.Name)

	if cfg.Backup && outputPath == mediaFile.Path {
		backupPath, err := backupOriginal(mediaFile.Path)
		if err != nil {
			return err
		}
		if backupPath != "" {
			mediaFile.BackupPath = backupPath
			fmt.Fprintf(proc.Out, "  backed up: %s\n", filepath.Base(backupPath))
		}
	}

	if err := proc.writeImage(outputPath, paletted); err != nil {
		return err
	}

	outFileInfo, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("could not confirm output file written: %w", err)
	}
	mediaFile.ShrunkSize = int(outFileInfo.Size())
	return nil
}

// backupOriginal copies path to path+".bak" unless that backup already exists.
// It returns the backup path when a copy was made.
func backupOriginal(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	backupPath := path + BackupSuffix
	if _, err := os.Lstat(backupPath); err == nil {
		return "", nil
	}
	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("backup failed: %w", err)
	}
	return backupPath, nil
}

// writeImage encodes img into a temporary file next to outputPath and moves it
// into place once encoding succeeded.
func (proc *Processor) writeImage(outputPath string, img *image.Paletted) error {
	dir, name := filepath.Split(outputPath)
	tempFile, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create output file %s: %w", outputPath, err)
	}
	tempPath := tempFile.Name()

	err = proc.Codec.Encode(tempFile, img)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("could not encode %s: %w", outputPath, err)
	}

	// keep the permissions of a file we replace
	mode := os.FileMode(0o644)
	if info, err := os.Stat(outputPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		proc.Log.Printf("  warning: could not set permissions of %s: %v", outputPath, err)
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("final rename step failed: %w", err)
	}
	return nil
}

// Reduction is the percentage by which size shrank to shrunkSize. An empty
// original counts as no reduction.
func Reduction(size, shrunkSize int) float64 {
	if size == 0 {
		return 0
	}
	return (1 - float64(shrunkSize)/float64(size)) * 100
}

func (proc *Processor) fileStats(mediaFile *MediaFile) string {
	name := runewidth.FillRight(mediaFile.Name+":", proc.nameWidth+1)
	return fmt.Sprintf("  %s %.1f KB -> %.1f KB (-%.0f%%)",
		name,
		float64(mediaFile.Size)/KB,
		float64(mediaFile.ShrunkSize)/KB,
		Reduction(mediaFile.Size, mediaFile.ShrunkSize))
}

// Shrink processes targets in order and returns one result per target.
func (proc *Processor) Shrink(targets []string) []MediaFile {
	proc.nameWidth = 0
	for _, target := range targets {
		if w := runewidth.StringWidth(filepath.Base(target)); w > proc.nameWidth {
			proc.nameWidth = w
		}
	}

	proc.MediaFiles = make([]MediaFile, 0, len(targets))
	for _, target := range targets {
		proc.MediaFiles = append(proc.MediaFiles, ProcessMediaFile(proc, target))
	}
	return proc.MediaFiles
}

func (stats *ShrunkStats) accumulate(mediaFile *MediaFile) {
	if mediaFile.Stage == ProcessingSuccess {
		stats.Count += 1
		stats.SizeBefore += mediaFile.Size
		stats.SizeAfter += mediaFile.ShrunkSize
	}
}

func (stats *ShrunkStats) ShrunkString() string {
	percentage := 100.0
	if stats.SizeBefore > 0 {
		percentage = float64(stats.SizeAfter) / float64(stats.SizeBefore) * 100
	}
	return fmt.Sprintf("Shrunk %d files [%s] -> [%s] (%.2f%% of original)",
		stats.Count,
		humanize.IBytes(uint64(stats.SizeBefore)),
		humanize.IBytes(uint64(stats.SizeAfter)),
		percentage)
}

func AccumulateStats(files []MediaFile) (stats ShrunkStats) {
	for index := range files {
		stats.accumulate(&files[index])
	}
	return
}
