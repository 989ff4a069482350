package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// Device describes one capture device.
type Device struct {
	Index int
	Name  string
}

// ListDevices enumerates the video capture devices ffmpeg can open.
func ListDevices() ([]Device, error) {
	switch runtime.GOOS {
	case "linux":
		return listV4L2Devices()
	case "darwin":
		return listAVFoundationDevices()
	default:
		return nil, fmt.Errorf("device enumeration not supported on %s", runtime.GOOS)
	}
}

// listV4L2Devices scans /dev/video* nodes.
func listV4L2Devices() ([]Device, error) {
	entries, err := os.ReadDir("/dev")
	if err != nil {
		return nil, err
	}

	var devices []Device
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "video") {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(name, "video"))
		if err != nil {
			continue
		}

		label := "/dev/" + name
		// sysfs carries the product name when the driver exposes it
		if data, err := os.ReadFile(fmt.Sprintf("/sys/class/video4linux/%s/name", name)); err == nil {
			label = strings.TrimSpace(string(data))
		}
		devices = append(devices, Device{Index: idx, Name: label})
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Index < devices[j].Index })
	return devices, nil
}

var avfDeviceRe = regexp.MustCompile(`\[(\d+)\]\s+(.+)$`)

// listAVFoundationDevices parses the device list ffmpeg prints on
// stderr.
func listAVFoundationDevices() ([]Device, error) {
	ffmpegPath, err := Find()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(ffmpegPath, "-f", "avfoundation", "-list_devices", "true", "-i", "")
	out, _ := cmd.CombinedOutput() // exits non-zero by design

	var devices []Device
	inVideo := false
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "video devices") {
			inVideo = true
			continue
		}
		if strings.Contains(line, "audio devices") {
			inVideo = false
			continue
		}
		if !inVideo {
			continue
		}
		if m := avfDeviceRe.FindStringSubmatch(line); m != nil {
			idx, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			devices = append(devices, Device{Index: idx, Name: strings.TrimSpace(m[2])})
		}
	}
	return devices, nil
}
