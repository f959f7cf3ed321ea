// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

// Package bootstrap provides a Go library for provisioning Android SDK
// tooling and virtual devices on build and CI machines.
package bootstrap

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ludachrisnyc/Connect-the-Darts/internal/android"
)

var tracer = otel.Tracer("dartsctl/bootstrap")

// Manager provides high-level Android build environment operations.
type Manager struct {
	cfg android.Config
}

// New creates a new Manager with auto-detected environment.
func New() *Manager {
	return &Manager{
		cfg: android.Detect(),
	}
}

// NewWithCorrelationID creates a new Manager with a correlation ID for structured logs.
func NewWithCorrelationID(correlationID string) *Manager {
	return NewWithContextAndCorrelationID(context.Background(), correlationID)
}

// NewWithContext creates a new Manager with a custom context for tracing.
func NewWithContext(ctx context.Context) *Manager {
	return NewWithContextAndCorrelationID(ctx, "")
}

// NewWithContextAndCorrelationID creates a new Manager with a custom context and correlation ID.
func NewWithContextAndCorrelationID(ctx context.Context, correlationID string) *Manager {
	cfg := android.Detect()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg.Context = ctx
	cfg.CorrelationID = correlationID
	return &Manager{
		cfg: cfg,
	}
}

// NewWithEnvironment creates a new Manager with custom environment configuration.
func NewWithEnvironment(env Environment) *Manager {
	ctx := env.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Manager{
		cfg: android.Config{
			PropertiesFile: env.PropertiesFile,
			AndroidHome:    env.AndroidHome,
			AndroidSDKRoot: env.AndroidSDKRoot,
			AVDHome:        env.AVDHome,
			JavaHome:       env.JavaHome,
			ToolsArchive:   env.ToolsArchive,
			ToolsURL:       env.ToolsURL,
			ToolsChecksum:  env.ToolsChecksum,
			CorrelationID:  env.CorrelationID,
			Context:        ctx,
		},
	}
}

// Environment holds configuration for SDK discovery and tool downloads.
type Environment struct {
	PropertiesFile string          // Gradle-style properties file consulted for sdk.dir
	AndroidHome    string          // Overrides ANDROID_HOME
	AndroidSDKRoot string          // Overrides ANDROID_SDK_ROOT
	AVDHome        string          // AVD storage directory (default ~/.android/avd)
	JavaHome       string          // JAVA_HOME exported to spawned SDK tools
	ToolsArchive   string          // Local command-line tools archive (skips the download)
	ToolsURL       string          // Download URL override for the command-line tools
	ToolsChecksum  string          // Expected SHA-256 of the downloaded archive
	CorrelationID  string          // Correlation ID for log enrichment
	Context        context.Context // Context for tracing
}

// SDKInfo identifies a located Android SDK installation.
type SDKInfo struct {
	Root   string // Absolute path of the SDK root
	Source string // Setting that produced it (sdk.dir, ANDROID_HOME, ANDROID_SDK_ROOT)
}

// DeviceInfo contains information about a virtual device.
type DeviceInfo struct {
	Name      string // AVD name
	Path      string // Path to .avd directory
	Userdata  string // Path to userdata file
	SizeBytes int64  // Size of userdata in bytes
}

// ToolInfo reports where one SDK tool resolved.
type ToolInfo struct {
	Name  string // Tool name (sdkmanager, avdmanager, emulator, adb)
	Path  string // Resolved path, empty when missing
	Found bool   // Whether the tool exists under the SDK root
}

// EmulatorProcess describes a detached emulator process.
type EmulatorProcess struct {
	PID int    // Process ID
	Log string // Path of the emulator log file
}

// Readiness reports how far the emulator got before control returned.
type Readiness string

const (
	// ReadinessPending means the emulator state is unknown, either because
	// the launch was skipped or because adb was unavailable for the wait.
	ReadinessPending Readiness = "pending"
	// ReadinessReady means adb reported an emulator serial.
	ReadinessReady Readiness = "ready"
	// ReadinessTimedOut means the poll budget ran out before adb saw the
	// device. The emulator may still finish booting on its own.
	ReadinessTimedOut Readiness = "timed_out"
)

// Error classes surfaced by bootstrap operations, usable with errors.Is.
var (
	ErrDownload = android.ErrDownload
	ErrExtract  = android.ErrExtract
	ErrInstall  = android.ErrInstall
	ErrCreate   = android.ErrCreate
	ErrLaunch   = android.ErrLaunch
)

// IsNotFound reports whether err classifies as a missing path, tool or
// setting rather than a failed operation.
func IsNotFound(err error) bool {
	return android.IsNotFound(err)
}

// UpOptions contains options for a full bootstrap run.
type UpOptions struct {
	DeviceName string // Virtual device name (default: "darts-avd")
	APILevel   int    // Android API level (default: 33)
	Variant    string // System image variant (default: "google_apis;x86_64")
	Profile    string // Device profile (default: "pixel_6")
	Start      bool   // Start the emulator after provisioning
	FixJava    bool   // Resolve a JDK before driving the SDK tools
}

// Up runs the full provisioning sequence: locate the SDK, install the
// packages, create the virtual device and, when requested, boot the
// emulator and wait for adb to report it.
func (m *Manager) Up(opts UpOptions) (Readiness, error) {
	ctx, span := m.startSpan("bootstrap.Up",
		attribute.String("device", opts.DeviceName),
	)
	defer span.End()

	cfg := m.cfg
	cfg.Context = ctx
	readiness, err := android.Bootstrap(cfg, android.Options{
		DeviceName: opts.DeviceName,
		APILevel:   opts.APILevel,
		Variant:    opts.Variant,
		Profile:    opts.Profile,
		Start:      opts.Start,
		FixJava:    opts.FixJava,
	})
	return Readiness(readiness.String()), err
}

// Locate finds the Android SDK root and reports which setting supplied it.
func (m *Manager) Locate() (SDKInfo, error) {
	sdk, err := android.LocateSDK(m.cfg)
	if err != nil {
		return SDKInfo{}, err
	}
	return SDKInfo{
		Root:   sdk.Root,
		Source: sdk.Source.String(),
	}, nil
}

// InstallPackages installs platform-tools, the emulator, the platform for
// the API level and the matching system image.
func (m *Manager) InstallPackages(apiLevel int, variant string) error {
	sdk, err := android.LocateSDK(m.cfg)
	if err != nil {
		return err
	}
	return android.InstallPackages(m.cfg, sdk, apiLevel, variant)
}

// CreateDevice creates the named virtual device if it does not exist yet.
// An existing device with the same name is left untouched.
func (m *Manager) CreateDevice(name string, apiLevel int, variant, profile string) error {
	sdk, err := android.LocateSDK(m.cfg)
	if err != nil {
		return err
	}
	return android.CreateAVD(m.cfg, sdk, name, apiLevel, variant, profile)
}

// StartDevice boots the named device detached and waits for adb to report
// an emulator serial.
func (m *Manager) StartDevice(name string) (EmulatorProcess, Readiness, error) {
	sdk, err := android.LocateSDK(m.cfg)
	if err != nil {
		return EmulatorProcess{}, ReadinessPending, err
	}
	proc, err := android.StartEmulator(m.cfg, sdk, name)
	if err != nil {
		return EmulatorProcess{}, ReadinessPending, err
	}
	readiness := android.WaitForDevice(m.cfg, sdk)
	return EmulatorProcess{
		PID: proc.PID,
		Log: proc.Log,
	}, Readiness(readiness.String()), nil
}

// EnsureJava resolves a usable JDK and returns its home directory.
func (m *Manager) EnsureJava() (string, error) {
	return android.EnsureJavaRuntime(m.cfg)
}

// List returns all virtual devices under the AVD home.
func (m *Manager) List() ([]DeviceInfo, error) {
	infos, err := android.ListDevices(m.cfg)
	if err != nil {
		return nil, err
	}
	result := make([]DeviceInfo, len(infos))
	for i, info := range infos {
		result[i] = DeviceInfo{
			Name:      info.Name,
			Path:      info.Path,
			Userdata:  info.Userdata,
			SizeBytes: info.SizeBytes,
		}
	}
	return result, nil
}

// Tools reports where each SDK tool resolves under the SDK root.
func (m *Manager) Tools() ([]ToolInfo, error) {
	sdk, err := android.LocateSDK(m.cfg)
	if err != nil {
		return nil, err
	}
	statuses := android.ToolStatuses(m.cfg, sdk)
	result := make([]ToolInfo, len(statuses))
	for i, s := range statuses {
		result[i] = ToolInfo{
			Name:  s.Name,
			Path:  s.Path,
			Found: s.Found,
		}
	}
	return result, nil
}

func (m *Manager) startSpan(name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx := m.cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if m.cfg.CorrelationID != "" {
		attrs = append(attrs, attribute.String("correlation_id", m.cfg.CorrelationID))
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
