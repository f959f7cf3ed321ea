// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleListOutput = `Available Android Virtual Devices:
    Name: darts-avd
    Path: /home/ci/.android/avd/darts-avd.avd
  Target: Google APIs (Google Inc.)
          Based on: Android 13.0 ("Tiramisu") Tag/ABI: google_apis/x86_64
---------
    Name: scratch
    Path: /home/ci/.android/avd/scratch.avd
`

func TestParseAVDNames(t *testing.T) {
	got := parseAVDNames(sampleListOutput)
	want := []string{"darts-avd", "scratch"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if names := parseAVDNames(""); names != nil {
		t.Fatalf("expected no names from empty output, got %v", names)
	}
}

func TestCreateAVDSkipsExistingDevice(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "cmdline-tools", "latest", "bin", "avdmanager")

	fake := &fakeRunner{respond: func(c Command) (Result, error) {
		return Result{Stdout: sampleListOutput}, nil
	}}
	cfg := Config{Runner: fake}
	if err := CreateAVD(cfg, SDK{Root: root}, "darts-avd", 33, "google_apis;x86_64", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected only the listing call, got %d", len(fake.calls))
	}
	if got := fake.calls[0].Args; !reflect.DeepEqual(got, []string{"list", "avd"}) {
		t.Fatalf("unexpected listing args %v", got)
	}
}

func TestCreateAVDCreatesMissingDevice(t *testing.T) {
	root := t.TempDir()
	manager := touchTool(t, root, "cmdline-tools", "latest", "bin", "avdmanager")

	fake := &fakeRunner{}
	cfg := Config{Runner: fake}
	if err := CreateAVD(cfg, SDK{Root: root}, "fresh", 30, "default;x86", "pixel_4"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(fake.calls) != 2 {
		t.Fatalf("expected list then create, got %d calls", len(fake.calls))
	}
	create := fake.calls[1]
	if create.Name != manager {
		t.Fatalf("expected %s, got %s", manager, create.Name)
	}
	want := []string{"create", "avd", "-n", "fresh", "-k", "system-images;android-30;default;x86", "--device", "pixel_4", "--force"}
	if !reflect.DeepEqual(create.Args, want) {
		t.Fatalf("got args %v, want %v", create.Args, want)
	}
	if create.Stdin != "no\n" {
		t.Fatalf("expected the hardware profile prompt declined, got %q", create.Stdin)
	}
}

func TestCreateAVDSecondRunConverges(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "cmdline-tools", "latest", "bin", "avdmanager")

	created := false
	fake := &fakeRunner{}
	fake.respond = func(c Command) (Result, error) {
		if c.Args[0] == "list" {
			if created {
				return Result{Stdout: "    Name: fresh\n"}, nil
			}
			return Result{}, nil
		}
		created = true
		return Result{}, nil
	}

	cfg := Config{Runner: fake}
	for i := 0; i < 2; i++ {
		if err := CreateAVD(cfg, SDK{Root: root}, "fresh", 33, "google_apis;x86_64", ""); err != nil {
			t.Fatalf("create round %d: %v", i, err)
		}
	}
	// list, create, then list only.
	if len(fake.calls) != 3 {
		t.Fatalf("expected 3 calls across both rounds, got %d", len(fake.calls))
	}
}

func TestCreateAVDSurfacesFailure(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "cmdline-tools", "latest", "bin", "avdmanager")

	fake := &fakeRunner{respond: func(c Command) (Result, error) {
		if c.Args[0] == "list" {
			return Result{}, nil
		}
		return Result{ExitCode: 1, Stderr: "no such system image"}, nil
	}}
	cfg := Config{Runner: fake}
	err := CreateAVD(cfg, SDK{Root: root}, "fresh", 99, "google_apis;x86_64", "")
	if !errors.Is(err, ErrCreate) {
		t.Fatalf("expected create error, got %v", err)
	}
}

func TestCreateAVDMissingManager(t *testing.T) {
	cfg := Config{Runner: &fakeRunner{}}
	err := CreateAVD(cfg, SDK{Root: t.TempDir()}, "fresh", 33, "google_apis;x86_64", "")
	if err == nil || !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCreateAVDRejectsEmptyName(t *testing.T) {
	cfg := Config{Runner: &fakeRunner{}}
	err := CreateAVD(cfg, SDK{Root: t.TempDir()}, "", 33, "google_apis;x86_64", "")
	if !errors.Is(err, ErrCreate) {
		t.Fatalf("expected create error, got %v", err)
	}
}

func TestListDevices(t *testing.T) {
	home := t.TempDir()
	avdDir := filepath.Join(home, "darts-avd.avd")
	if err := os.MkdirAll(avdDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	payload := []byte("userdata")
	if err := os.WriteFile(filepath.Join(avdDir, "userdata.img"), payload, 0o644); err != nil {
		t.Fatalf("write userdata: %v", err)
	}
	// Loose files are not devices.
	if err := os.WriteFile(filepath.Join(home, "darts-avd.ini"), []byte("ini"), 0o644); err != nil {
		t.Fatalf("write ini: %v", err)
	}

	devices, err := ListDevices(Config{AVDHome: home})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected one device, got %d", len(devices))
	}
	d := devices[0]
	if d.Name != "darts-avd" || d.Path != avdDir {
		t.Fatalf("unexpected device %+v", d)
	}
	if d.SizeBytes != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), d.SizeBytes)
	}
}
