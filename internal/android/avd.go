// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultDeviceProfile is the avdmanager hardware profile used when the
// caller does not pick one.
const DefaultDeviceProfile = "pixel_6"

// DeviceInfo describes one virtual device directory under the AVD home.
type DeviceInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Userdata  string `json:"userdata"`
	SizeBytes int64  `json:"size_bytes"`
}

// CreateAVD provisions a virtual device for the given system image. The
// device listing is consulted first; an existing device with the same name
// is kept untouched, so repeated runs converge instead of stacking devices.
func CreateAVD(cfg Config, sdk SDK, name string, apiLevel int, variant, profile string) error {
	_, span := startSpan(cfg, "android.CreateAVD",
		attribute.String("name", name),
		attribute.Int("api_level", apiLevel),
	)
	defer span.End()

	if name == "" {
		err := fmt.Errorf("%w: empty device name", ErrCreate)
		recordSpanError(span, err)
		return err
	}
	if profile == "" {
		profile = DefaultDeviceProfile
	}
	manager := ResolveTool(sdk.Root, ToolAvdManager)
	if manager == "" {
		err := notFoundf("avdmanager not found under %s", sdk.Root)
		recordSpanError(span, err)
		return err
	}

	res, err := cfg.runner().Run(cfg.context(), Command{Name: manager, Args: []string{"list", "avd"}})
	if err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("%w: %v", ErrCreate, err)
	}
	if res.ExitCode != 0 {
		err := fmt.Errorf("%w: %s list avd exited %d\n%s", ErrCreate, manager, res.ExitCode, res.Output())
		recordSpanError(span, err)
		return err
	}
	for _, existing := range parseAVDNames(res.Stdout) {
		if existing == name {
			logEvent(cfg, "virtual device already exists", "name", name)
			return nil
		}
	}

	image := SystemImageID(apiLevel, variant)
	args := []string{"create", "avd", "-n", name, "-k", image, "--device", profile, "--force"}
	logEvent(cfg, "creating virtual device",
		"name", name, "image", image, "profile", profile)
	res, err = cfg.runner().Run(cfg.context(), Command{
		Name:  manager,
		Args:  args,
		Stdin: "no\n", // decline the custom hardware profile prompt
	})
	if err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("%w: %v", ErrCreate, err)
	}
	if res.ExitCode != 0 {
		err := fmt.Errorf("%w: %s %v exited %d\n%s", ErrCreate, manager, args, res.ExitCode, res.Output())
		recordSpanError(span, err)
		return err
	}
	logEvent(cfg, "virtual device created", "name", name)
	return nil
}

// parseAVDNames pulls device names out of `avdmanager list avd` output,
// which lists one "Name: <value>" line per device.
func parseAVDNames(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Name:"); ok {
			if name := strings.TrimSpace(rest); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// ListDevices scans the AVD home directory for provisioned devices. It
// reads the filesystem directly instead of shelling out, so it works even
// when the SDK tools are broken.
func ListDevices(cfg Config) ([]DeviceInfo, error) {
	_, span := startSpan(cfg, "android.ListDevices")
	defer span.End()
	entries, err := os.ReadDir(cfg.AVDHome)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	var out []DeviceInfo
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), ".avd") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".avd")
		dir := filepath.Join(cfg.AVDHome, e.Name())
		ud := filepath.Join(dir, "userdata-qemu.img.qcow2")
		if _, err := os.Stat(ud); err != nil {
			ud = filepath.Join(dir, "userdata.img")
		}
		var sz int64
		if st, err := os.Stat(ud); err == nil {
			sz = st.Size()
		}
		out = append(out, DeviceInfo{Name: name, Path: dir, Userdata: ud, SizeBytes: sz})
	}
	return out, nil
}
