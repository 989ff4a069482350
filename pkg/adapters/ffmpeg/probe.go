package ffmpeg

import (
	"fmt"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// probeInfo holds stream properties read from an MP4 container.
type probeInfo struct {
	width      int
	height     int
	fps        float64
	duration   float64
	frameCount int64
}

// probeMP4 reads the moov box of an MP4 file to learn dimensions,
// duration, and frame rate without decoding any video.
func probeMP4(path string) (probeInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return probeInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	mp4File, err := mp4.DecodeFile(f)
	if err != nil {
		return probeInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	moov := mp4File.Moov
	if moov == nil && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return probeInfo{}, fmt.Errorf("no moov box")
	}

	// Find the video track
	var trak *mp4.TrakBox
	for _, t := range moov.Traks {
		if t.Mdia != nil && t.Mdia.Hdlr != nil && t.Mdia.Hdlr.HandlerType == "vide" {
			trak = t
			break
		}
	}
	if trak == nil {
		return probeInfo{}, fmt.Errorf("no video track found")
	}

	info := probeInfo{
		width:  int(trak.Tkhd.Width >> 16),
		height: int(trak.Tkhd.Height >> 16),
	}

	var timescale uint32 = 1000
	var trackDur uint64
	if trak.Mdia.Mdhd != nil {
		timescale = trak.Mdia.Mdhd.Timescale
		trackDur = trak.Mdia.Mdhd.Duration
	}
	if timescale > 0 && trackDur > 0 {
		info.duration = float64(trackDur) / float64(timescale)
	}

	// Sample count gives the frame total for progressive files
	if trak.Mdia.Minf != nil && trak.Mdia.Minf.Stbl != nil && trak.Mdia.Minf.Stbl.Stts != nil {
		stts := trak.Mdia.Minf.Stbl.Stts
		var samples uint64
		for _, c := range stts.SampleCount {
			samples += uint64(c)
		}
		info.frameCount = int64(samples)
	}

	if info.duration > 0 && info.frameCount > 0 {
		info.fps = float64(info.frameCount) / info.duration
	}

	return info, nil
}
