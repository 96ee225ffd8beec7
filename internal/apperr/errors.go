// Package apperr defines the error kinds that stop a reorganization run.
package apperr

import "errors"

var (
	ErrConfig            = errors.New("invalid configuration")
	ErrMalformedDate     = errors.New("malformed date in index")
	ErrMissingLinkedFile = errors.New("linked file not readable")
	ErrFilesystem        = errors.New("filesystem operation failed")
	ErrUnsupportedLink   = errors.New("unsupported link")
	ErrPhaseOrder        = errors.New("phase ordering violated")
)
