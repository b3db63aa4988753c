package media

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}
)

const maxFrameBytes = 16 << 20

// Frame is one decoded video frame as it comes off the ffmpeg pipe.
type Frame struct {
	Index int
	Time  float64
	JPEG  []byte
}

// FrameSource streams MJPEG frames out of a video file via ffmpeg. Frames
// are consumed strictly in order; the source is owned by exactly one run.
type FrameSource struct {
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	stderr  bytes.Buffer
	scanner *bufio.Scanner
	fps     float64
	idx     int
}

// OpenFrameSource probes the file and starts the decoder pipe. A missing or
// unopenable input is a fatal error; the caller must Close the source.
func OpenFrameSource(path string, fallbackFPS float64) (*FrameSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("video input: %w", err)
	}
	fps := ProbeFPS(path)
	if fps <= 0 {
		fps = fallbackFPS
	}

	cmd := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-i", path, "-f", "image2pipe", "-vcodec", "mjpeg", "-")
	src := &FrameSource{cmd: cmd, fps: fps}
	cmd.Stderr = &src.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	src.stdout = stdout
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}

	src.scanner = bufio.NewScanner(stdout)
	src.scanner.Buffer(make([]byte, 0, 1<<20), maxFrameBytes)
	src.scanner.Split(splitJPEG)
	return src, nil
}

func (s *FrameSource) FPS() float64 { return s.fps }

// Next returns the next frame, or io.EOF once the stream is drained.
func (s *FrameSource) Next() (*Frame, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	raw := s.scanner.Bytes()
	buf := make([]byte, len(raw))
	copy(buf, raw)
	f := &Frame{Index: s.idx, Time: float64(s.idx) / s.fps, JPEG: buf}
	s.idx++
	return f, nil
}

func (s *FrameSource) Close() error {
	s.stdout.Close()
	err := s.cmd.Wait()
	if err != nil && s.stderr.Len() > 0 {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(s.stderr.String()))
	}
	return err
}

// splitJPEG is the bufio.Scanner split function extracting whole JPEG frames
// between the SOI (FFD8) and EOI (FFD9) markers.
func splitJPEG(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	start := bytes.Index(data, jpegSOI)
	if start == -1 {
		return 0, nil, nil
	}
	end := bytes.Index(data[start:], jpegEOI)
	if end == -1 {
		return 0, nil, nil
	}
	return start + end + 2, data[start : start+end+2], nil
}

type ffprobeStreams struct {
	Streams []struct {
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
		RFrameRate    string `json:"r_frame_rate"`
	} `json:"streams"`
}

// ProbeFrameCount returns the total frame count for progress estimation, or
// 0 when it cannot be determined (callers fall back to a spinner).
func ProbeFrameCount(path string) int {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0
	}
	fast := exec.Command("ffprobe", "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=nb_frames", "-of", "json", path)
	if out, err := fast.Output(); err == nil {
		var res ffprobeStreams
		if json.Unmarshal(out, &res) == nil && len(res.Streams) > 0 {
			if n, err := strconv.Atoi(res.Streams[0].NbFrames); err == nil && n > 0 {
				return n
			}
		}
	}

	slow := exec.Command("ffprobe", "-v", "error", "-select_streams", "v:0",
		"-count_packets", "-show_entries", "stream=nb_read_packets", "-of", "json", path)
	out, err := slow.Output()
	if err != nil {
		return 0
	}
	var res ffprobeStreams
	if json.Unmarshal(out, &res) != nil || len(res.Streams) == 0 {
		return 0
	}
	n, err := strconv.Atoi(res.Streams[0].NbReadPackets)
	if err != nil {
		return 0
	}
	return n
}

// ProbeFPS parses the stream frame rate ("30000/1001" style). Returns 0 when
// probing fails.
func ProbeFPS(path string) float64 {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0
	}
	cmd := exec.Command("ffprobe", "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate", "-of", "json", path)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	var res ffprobeStreams
	if json.Unmarshal(out, &res) != nil || len(res.Streams) == 0 {
		return 0
	}
	return parseRate(res.Streams[0].RFrameRate)
}

func parseRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		v, _ := strconv.ParseFloat(r, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
