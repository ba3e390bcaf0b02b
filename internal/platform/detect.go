package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// platformInformation is replaced in tests.
var platformInformation = host.PlatformInformationWithContext

// Detect performs platform detection and returns platform information.
//
// If gopsutil fails, the distribution fields stay empty and detection still
// succeeds. Only a cancelled context is an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:   runtime.GOOS,
		Arch: normalizeArch(runtime.GOARCH),
	}

	platform, family, version, err := platformInformation(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform == "" {
		return info, nil
	}

	info.Platform = platform
	info.Version = normalizePlatform(version)
	if info.IsLinux() {
		info.Family = mapFamily(family)
	}

	return info, nil
}
