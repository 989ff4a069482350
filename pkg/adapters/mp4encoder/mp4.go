package mp4encoder

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"
)

// buildMP4 creates a fragmented MP4 container from the stored JPEG
// frames. With zero frames the container carries only ftyp and moov,
// which players treat as an empty but well-formed file.
func (e *Encoder) buildMP4() ([]byte, error) {
	timescale := uint32(e.fps * 1000)
	if timescale == 0 {
		timescale = 30000
	}
	trackID := uint32(1)

	// Create initialization segment
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")

	trak := init.Moov.Trak

	// Create jpeg sample entry. MJPEG needs no codec config box.
	entry := mp4.CreateVisualSampleEntryBox("jpeg", uint16(e.width), uint16(e.height), nil)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)

	// Set track header dimensions
	trak.Tkhd.Width = mp4.Fixed32(e.width << 16)
	trak.Tkhd.Height = mp4.Fixed32(e.height << 16)

	var buf bytes.Buffer

	// Write ftyp
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}

	// Write moov (from init segment)
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}

	if len(e.frames) == 0 {
		return buf.Bytes(), nil
	}

	// Create fragment
	frag, err := mp4.CreateFragment(1, trackID)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}

	defaultDur := uint32(float64(timescale) / e.fps)

	// Add samples to fragment. Every MJPEG frame is a sync sample.
	for i, frame := range e.frames {
		var dur uint32
		if i < len(e.frames)-1 {
			nextTs := e.frames[i+1].timestampMs
			dur = uint32(int64(nextTs-frame.timestampMs) * int64(timescale) / 1000)
		} else {
			dur = defaultDur
		}
		if dur == 0 {
			dur = defaultDur
		}

		decodeTime := uint64(frame.timestampMs) * uint64(timescale) / 1000

		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: mp4.SyncSampleFlags,
				Size:  uint32(len(frame.data)),
				Dur:   dur,
			},
			DecodeTime: decodeTime,
			Data:       frame.data,
		})
	}

	// Write fragment (moof + mdat)
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}

	return buf.Bytes(), nil
}
