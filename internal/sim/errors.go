package sim

import (
	"errors"

	"github.com/Faultbox/panosim/internal/navgraph"
	"github.com/Faultbox/panosim/internal/texcache"
)

// Errors returned by the simulator. Match them with errors.Is.
var (
	// ErrGraphLoad means the scan's connectivity file is missing or malformed.
	ErrGraphLoad = navgraph.ErrGraphLoad
	// ErrAssetLoad means a panorama's imagery is missing or corrupt.
	ErrAssetLoad = texcache.ErrAssetLoad

	ErrUnknownViewpoint     = errors.New("unknown viewpoint")
	ErrExcludedViewpoint    = errors.New("viewpoint is not included")
	ErrNoIncludedViewpoints = errors.New("scan has no included viewpoints")
	ErrInvalidAction        = errors.New("invalid action")
	ErrClosed               = errors.New("simulator closed")
)
