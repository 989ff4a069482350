package media

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceKind discriminates the variants of Source.
type SourceKind int

const (
	// SourceDevice selects a capture device by enumeration index.
	SourceDevice SourceKind = iota
	// SourceFile selects a movie file on disk.
	SourceFile
	// SourceURI selects a remote stream or page by URI.
	SourceURI
)

// Source identifies what a video source should open: a device index,
// a file path, or a URI. Produced by device discovery or user input.
type Source struct {
	Kind  SourceKind
	Index int
	Path  string
	URI   string
}

// DeviceSource returns a Source for the capture device at index.
func DeviceSource(index int) Source {
	return Source{Kind: SourceDevice, Index: index}
}

// FileSource returns a Source for a movie file.
func FileSource(path string) Source {
	return Source{Kind: SourceFile, Path: path}
}

// URISource returns a Source for a remote stream or page.
func URISource(uri string) Source {
	return Source{Kind: SourceURI, URI: uri}
}

// ParseSource interprets a descriptor string. "device:N" selects a
// capture device by index, descriptors with a URI scheme become URI
// sources, and everything else is treated as a file path.
func ParseSource(s string) Source {
	if rest, ok := strings.CutPrefix(s, "device:"); ok {
		if idx, err := strconv.Atoi(rest); err == nil {
			return DeviceSource(idx)
		}
	}
	if strings.Contains(s, "://") || strings.HasPrefix(s, "synth:") {
		return URISource(s)
	}
	return FileSource(s)
}

// String returns a human-readable description of the source.
func (s Source) String() string {
	switch s.Kind {
	case SourceDevice:
		return fmt.Sprintf("device:%d", s.Index)
	case SourceFile:
		return s.Path
	case SourceURI:
		return s.URI
	default:
		return "invalid"
	}
}
