package android

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

const adbHeader = "List of devices attached\n"

func TestStartEmulatorDetaches(t *testing.T) {
	root := t.TempDir()
	bin := touchTool(t, root, "emulator", "emulator")

	fake := &fakeRunner{}
	cfg := Config{Runner: fake}
	proc, err := StartEmulator(cfg, SDK{Root: root}, "darts-avd")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if proc.PID != 4242 {
		t.Fatalf("expected fake pid, got %d", proc.PID)
	}
	if len(fake.detached) != 1 {
		t.Fatalf("expected one detached launch, got %d", len(fake.detached))
	}
	launch := fake.detached[0]
	if launch.Name != bin {
		t.Fatalf("expected %s, got %s", bin, launch.Name)
	}
	want := []string{"-avd", "darts-avd", "-netdelay", "none", "-netspeed", "full"}
	if !reflect.DeepEqual(launch.Args, want) {
		t.Fatalf("got args %v, want %v", launch.Args, want)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no foreground calls, got %d", len(fake.calls))
	}
}

func TestStartEmulatorMissingBinary(t *testing.T) {
	cfg := Config{Runner: &fakeRunner{}}
	_, err := StartEmulator(cfg, SDK{Root: t.TempDir()}, "darts-avd")
	if !errors.Is(err, ErrLaunch) {
		t.Fatalf("expected launch error, got %v", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not-found class, got %v", err)
	}
}

func TestStartEmulatorDetachFailure(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "emulator", "emulator")

	fake := &fakeRunner{detachErr: errors.New("fork failed")}
	cfg := Config{Runner: fake}
	_, err := StartEmulator(cfg, SDK{Root: root}, "darts-avd")
	if !errors.Is(err, ErrLaunch) {
		t.Fatalf("expected launch error, got %v", err)
	}
}

func TestWaitForDeviceReadyAfterExactAttempts(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "platform-tools", "adb")

	polls := 0
	fake := &fakeRunner{}
	fake.respond = func(c Command) (Result, error) {
		polls++
		if polls >= 3 {
			return Result{Stdout: adbHeader + "emulator-5554\tdevice\n"}, nil
		}
		return Result{Stdout: adbHeader}, nil
	}

	cfg := Config{Runner: fake, PollInterval: time.Millisecond}
	if got := WaitForDevice(cfg, SDK{Root: root}); got != ReadinessReady {
		t.Fatalf("expected ready, got %s", got)
	}
	if polls != 3 {
		t.Fatalf("expected exactly 3 polls, got %d", polls)
	}
}

func TestWaitForDeviceFirstAttempt(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "platform-tools", "adb")

	fake := &fakeRunner{respond: func(c Command) (Result, error) {
		return Result{Stdout: adbHeader + "emulator-5556\toffline\n"}, nil
	}}
	cfg := Config{Runner: fake, PollInterval: time.Millisecond}
	if got := WaitForDevice(cfg, SDK{Root: root}); got != ReadinessReady {
		t.Fatalf("expected ready, got %s", got)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected a single poll, got %d", len(fake.calls))
	}
}

func TestWaitForDeviceTimesOutAfterBudget(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "platform-tools", "adb")

	fake := &fakeRunner{respond: func(c Command) (Result, error) {
		return Result{Stdout: adbHeader}, nil
	}}
	cfg := Config{Runner: fake, PollInterval: time.Millisecond}
	if got := WaitForDevice(cfg, SDK{Root: root}); got != ReadinessTimedOut {
		t.Fatalf("expected timeout, got %s", got)
	}
	if len(fake.calls) != defaultPollAttempts {
		t.Fatalf("expected %d polls, got %d", defaultPollAttempts, len(fake.calls))
	}
}

func TestWaitForDeviceWithoutADB(t *testing.T) {
	fake := &fakeRunner{}
	cfg := Config{Runner: fake, PollInterval: time.Millisecond}
	if got := WaitForDevice(cfg, SDK{Root: t.TempDir()}); got != ReadinessPending {
		t.Fatalf("expected pending, got %s", got)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no polls without adb, got %d", len(fake.calls))
	}
}

func TestWaitForDeviceProgressReportsStages(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "platform-tools", "adb")

	polls := 0
	fake := &fakeRunner{respond: func(c Command) (Result, error) {
		polls++
		if polls < 3 {
			return Result{Stdout: adbHeader}, nil
		}
		return Result{Stdout: adbHeader + "emulator-5554\tdevice\n"}, nil
	}}
	cfg := Config{Runner: fake, PollInterval: time.Millisecond, PollAttempts: 10}

	var stages []string
	got := WaitForDeviceWithProgress(cfg, SDK{Root: root}, func(stage string, attempt int) {
		stages = append(stages, stage)
	})
	if got != ReadinessReady {
		t.Fatalf("expected ready, got %s", got)
	}
	want := []string{"waiting_adb", "waiting_adb", "waiting_adb", "device_visible"}
	if !reflect.DeepEqual(stages, want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
}

func TestWaitForDeviceProgressOnTimeout(t *testing.T) {
	root := t.TempDir()
	touchTool(t, root, "platform-tools", "adb")

	fake := &fakeRunner{respond: func(c Command) (Result, error) {
		return Result{Stdout: adbHeader}, nil
	}}
	cfg := Config{Runner: fake, PollInterval: time.Millisecond, PollAttempts: 3}

	var stages []string
	got := WaitForDeviceWithProgress(cfg, SDK{Root: root}, func(stage string, attempt int) {
		stages = append(stages, stage)
	})
	if got != ReadinessTimedOut {
		t.Fatalf("expected timeout, got %s", got)
	}
	want := []string{"waiting_adb", "waiting_adb", "waiting_adb", "timed_out"}
	if !reflect.DeepEqual(stages, want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
}

func TestHasEmulatorEntry(t *testing.T) {
	cases := []struct {
		out  string
		want bool
	}{
		{adbHeader, false},
		{adbHeader + "emulator-5554\tdevice\n", true},
		{adbHeader + "emulator-5556\toffline\n", true},
		{adbHeader + "192.168.1.7:5555\tdevice\n", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := hasEmulatorEntry(tc.out); got != tc.want {
			t.Fatalf("hasEmulatorEntry(%q) = %v, want %v", tc.out, got, tc.want)
		}
	}
}

func TestReadinessString(t *testing.T) {
	if ReadinessPending.String() != "pending" ||
		ReadinessReady.String() != "ready" ||
		ReadinessTimedOut.String() != "timed_out" {
		t.Fatal("unexpected readiness labels")
	}
}
