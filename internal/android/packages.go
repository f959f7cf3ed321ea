// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// SystemImageID builds the sdkmanager identifier of an emulator system
// image, e.g. system-images;android-33;google_apis;x86_64.
func SystemImageID(apiLevel int, variant string) string {
	return fmt.Sprintf("system-images;android-%d;%s", apiLevel, variant)
}

// PackageIDs returns the sdkmanager identifiers a working emulator setup
// needs for the given API level and system-image variant, in install order.
func PackageIDs(apiLevel int, variant string) []string {
	return []string{
		"platform-tools",
		"emulator",
		fmt.Sprintf("platforms;android-%d", apiLevel),
		SystemImageID(apiLevel, variant),
	}
}

// InstallPackages drives sdkmanager to install the platform tools, the
// emulator, the platform and the system image for the requested API level.
// sdkmanager is itself installed first when missing.
func InstallPackages(cfg Config, sdk SDK, apiLevel int, variant string) error {
	_, span := startSpan(cfg, "android.InstallPackages",
		attribute.String("sdk_root", sdk.Root),
		attribute.Int("api_level", apiLevel),
		attribute.String("variant", variant),
	)
	defer span.End()

	manager, err := EnsureSdkManager(cfg, sdk)
	if err != nil {
		recordSpanError(span, err)
		return err
	}

	ids := PackageIDs(apiLevel, variant)
	args := append([]string{"--sdk_root=" + sdk.Root}, ids...)
	args = append(args, "--verbose")
	logEvent(cfg, "installing sdk packages", "packages", strings.Join(ids, " "))

	res, err := cfg.runner().Run(cfg.context(), Command{Name: manager, Args: args})
	if err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("%w: %v", ErrInstall, err)
	}
	if res.ExitCode != 0 {
		err := fmt.Errorf("%w: %s %v exited %d\n%s", ErrInstall, manager, args, res.ExitCode, res.Output())
		recordSpanError(span, err)
		return err
	}
	logEvent(cfg, "sdk packages installed", "packages", strings.Join(ids, " "))
	return nil
}
