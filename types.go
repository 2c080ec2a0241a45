package asset_shrinker

import (
	"io"
	"log"
)

type MediaType int

const (
	UnknownType MediaType = iota
	PNG
	JPG
	WebP
)

type ProcessingStage int

const (
	Waiting ProcessingStage = iota
	Ignored                 // extension not handled; no output at all
	ProcessingError
	ProcessingSuccess
)

// MediaFile is the outcome of processing one target.
type MediaFile struct {
	Type MediaType
	Path string // absolute
	Name string

	Size          int // in bytes
	Width, Height int

	Stage        ProcessingStage
	ShrunkSize   int
	ShrunkWidth  int
	ShrunkHeight int
	Colors       int // palette entries written

	BackupPath string // set only when a backup was made during this run
	Error      error  // why processing was skipped
}

type Processor struct {
	Config Config
	Codec  Codec
	DstDir string

	Out io.Writer
	Log *log.Logger

	MediaFiles []MediaFile

	// display width of the longest file name, for aligned report lines
	nameWidth int
}

type ShrunkStats struct {
	Count      int
	SizeBefore int
	SizeAfter  int
}
