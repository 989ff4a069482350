package smartencoder

import (
	"testing"

	"github.com/user/camstream/pkg/adapters/mp4encoder"
)

func TestNew_MJPEGUsesNativeBackend(t *testing.T) {
	enc, info, err := New(CodecMJPEG, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := enc.(*mp4encoder.Encoder); !ok {
		t.Errorf("expected the pure-Go encoder, got %T", enc)
	}
	if info.Codec != CodecMJPEG || info.Backend != BackendNative {
		t.Errorf("unexpected selection %s/%s", info.Codec, info.Backend)
	}
	if info.FallbackUsed {
		t.Error("a direct MJPEG request is not a fallback")
	}
	if info.RequestedCodec != CodecMJPEG {
		t.Errorf("expected requested codec preserved, got %s", info.RequestedCodec)
	}
}

func TestNew_H264Selection(t *testing.T) {
	enc, info, err := New(CodecH264, Options{AllowFallback: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc == nil {
		t.Fatal("expected an encoder")
	}
	if info.RequestedCodec != CodecH264 {
		t.Errorf("expected requested codec h264, got %s", info.RequestedCodec)
	}

	// On hosts without ffmpeg the request degrades to MJPEG; either
	// way a usable encoder comes back.
	if IsH264Available() {
		if info.Codec != CodecH264 || info.Backend != BackendFFmpeg || info.FallbackUsed {
			t.Errorf("expected ffmpeg h264, got %s/%s fallback=%v",
				info.Codec, info.Backend, info.FallbackUsed)
		}
	} else {
		if info.Codec != CodecMJPEG || info.Backend != BackendNative || !info.FallbackUsed {
			t.Errorf("expected native MJPEG fallback, got %s/%s fallback=%v",
				info.Codec, info.Backend, info.FallbackUsed)
		}
	}
}

func TestNew_H264WithoutFallback(t *testing.T) {
	if IsH264Available() {
		t.Skip("ffmpeg present, fallback refusal not reachable")
	}
	if _, _, err := New(CodecH264, Options{AllowFallback: false}); err == nil {
		t.Error("expected ErrNoEncoderAvailable without ffmpeg")
	}
}

func TestIsMJPEGAvailable(t *testing.T) {
	if !IsMJPEGAvailable() {
		t.Error("the pure-Go encoder must always be available")
	}
}
