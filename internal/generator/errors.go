package generator

import "errors"

// Sentinel errors for asset generation. Entry failures wrap one of these.
var (
	ErrEmptyTable        = errors.New("size table is empty")
	ErrNilSource         = errors.New("source is nil")
	ErrRender            = errors.New("render failed")
	ErrDirectoryCreation = errors.New("failed to create output directory")
	ErrWrite             = errors.New("failed to write asset")
)
