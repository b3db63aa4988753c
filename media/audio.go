package media

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
)

// DecodeSamples converts any input (audio or video container) to mono float
// samples at the requested rate via ffmpeg. Unreadable input is fatal.
func DecodeSamples(path string, sampleRate int) ([]float64, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("audio input: %w", err)
	}
	cmd := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-i", path,
		"-ar", fmt.Sprint(sampleRate),
		"-ac", "1",
		"-f", "s16le",
		"-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode: %w", err)
	}

	samples := make([]float64, len(out)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(out[2*i:]))
		samples[i] = float64(v) / 32768.0
	}
	return samples, nil
}

// WriteWAV writes mono 16-bit PCM. Used for the per-window scratch slices
// handed to the quality classifier.
func WriteWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dataLen := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate * 2)

	var hdr []byte
	hdr = append(hdr, "RIFF"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 36+dataLen)
	hdr = append(hdr, "WAVE"...)
	hdr = append(hdr, "fmt "...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 16)
	hdr = binary.LittleEndian.AppendUint16(hdr, 1) // PCM
	hdr = binary.LittleEndian.AppendUint16(hdr, 1) // mono
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(sampleRate))
	hdr = binary.LittleEndian.AppendUint32(hdr, byteRate)
	hdr = binary.LittleEndian.AppendUint16(hdr, 2)  // block align
	hdr = binary.LittleEndian.AppendUint16(hdr, 16) // bits per sample
	hdr = append(hdr, "data"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, dataLen)
	if _, err := f.Write(hdr); err != nil {
		return err
	}

	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int16(math.Max(-32768, math.Min(32767, math.Round(s*32767))))
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(v))
	}
	if _, err := f.Write(pcm); err != nil {
		return err
	}
	return nil
}
