// Package platform describes the host the CLI runs on.
//
// The description ends up in the User-Agent of telemetry requests and in the
// status report, which helps tell apart events sent from different machines.
// OS and architecture come from the Go runtime; the OS distribution and its
// version come from gopsutil and are left empty when detection fails.
package platform

import (
	"context"
	"strings"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // "amd64", "arm64", ... (normalized)
	Platform string // distribution or product ID, e.g. "ubuntu", "darwin"
	Family   string // canonical Linux family, e.g. "debian"; empty elsewhere
	Version  string // distribution or OS version, e.g. "22.04", "14.5"
}

// String renders the platform for humans, e.g. "linux/amd64 (ubuntu 22.04)".
func (i *Info) String() string {
	s := i.OS + "/" + i.Arch
	if i.Platform == "" {
		return s
	}
	return s + " (" + strings.TrimSpace(i.Platform+" "+i.Version) + ")"
}

// UserAgent builds "<product>/<version> (<os>; <arch>[; <platform> <version>])".
func (i *Info) UserAgent(product, version string) string {
	parts := []string{i.OS, i.Arch}
	if i.Platform != "" {
		parts = append(parts, strings.TrimSpace(i.Platform+" "+i.Version))
	}
	return product + "/" + version + " (" + strings.Join(parts, "; ") + ")"
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
