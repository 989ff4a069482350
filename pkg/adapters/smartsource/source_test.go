package smartsource

import (
	"testing"

	"github.com/user/camstream/pkg/adapters/chromesource"
	"github.com/user/camstream/pkg/adapters/ffmpeg"
	"github.com/user/camstream/pkg/adapters/synthsource"
	"github.com/user/camstream/pkg/media"
)

func TestNew_BackendSelection(t *testing.T) {
	tests := []struct {
		descriptor string
		backend    Backend
	}{
		{"synth:bars", BackendSynth},
		{"SYNTH:bars", BackendSynth},
		{"https://example.com/page", BackendChrome},
		{"http://example.com", BackendChrome},
		{"rtsp://cam.local/stream", BackendFFmpeg},
		{"device:0", BackendFFmpeg},
		{"movie.mp4", BackendFFmpeg},
	}

	for _, tt := range tests {
		src, info, err := New(media.ParseSource(tt.descriptor), Options{})
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.descriptor, err)
			continue
		}
		if info.Backend != tt.backend {
			t.Errorf("%q: expected backend %s, got %s", tt.descriptor, tt.backend, info.Backend)
		}

		switch info.Backend {
		case BackendSynth:
			if _, ok := src.(*synthsource.Source); !ok {
				t.Errorf("%q: expected synthetic source, got %T", tt.descriptor, src)
			}
		case BackendChrome:
			if _, ok := src.(*chromesource.Source); !ok {
				t.Errorf("%q: expected chrome source, got %T", tt.descriptor, src)
			}
		case BackendFFmpeg:
			if _, ok := src.(*ffmpeg.Source); !ok {
				t.Errorf("%q: expected ffmpeg source, got %T", tt.descriptor, src)
			}
		}
	}
}
