package media

import (
	"bytes"
	"encoding/binary"
)

// EncodeWAV serializes an audio track as a 16-bit PCM RIFF/WAVE file.
// Used to hand the recorded audio to the track merger.
func EncodeWAV(track AudioTrack) []byte {
	channels := track.Channels
	if channels < 1 {
		channels = 1
	}
	sampleRate := track.SampleRate
	if sampleRate < 1 {
		sampleRate = 48000
	}

	dataLen := len(track.Samples) * 2
	blockAlign := channels * 2
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range track.Samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}
