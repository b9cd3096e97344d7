// Package platform describes where PHP lives on each operating system family
// and how to tell a user to install a missing version.
package platform

import (
	"path/filepath"
	"runtime"
	"strings"

	"phpswitcher/internal/discovery"
)

// Family identifies an operating system family.
type Family string

const (
	Linux Family = "linux"
	MacOS Family = "macos"
	BSD   Family = "bsd"
	Other Family = "other"
)

// ManualURL is printed with every set of install hints.
const ManualURL = "https://www.php.net/manual/en/install.php"

// Profile is chosen once at startup and passed to discovery and the switch
// engine.
type Profile struct {
	Family Family
	Home   string
}

// FamilyOf maps a GOOS value to its family.
func FamilyOf(goos string) Family {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return MacOS
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return BSD
	default:
		return Other
	}
}

// Detect returns the profile of the running system.
func Detect(home string) Profile {
	return New(runtime.GOOS, home)
}

// New returns the profile for goos with version-manager roots under home.
func New(goos, home string) Profile {
	return Profile{Family: FamilyOf(goos), Home: home}
}

// Name returns a human-readable platform name.
func (p Profile) Name() string {
	switch p.Family {
	case Linux:
		return "Linux"
	case MacOS:
		return "macOS"
	case BSD:
		return "BSD"
	default:
		return "Unknown"
	}
}

// CommonPaths lists the usual locations of the default php binary.
func (p Profile) CommonPaths() []string {
	switch p.Family {
	case MacOS:
		return []string{"/usr/bin/php", "/usr/local/bin/php", "/opt/homebrew/bin/php"}
	case BSD:
		return []string{"/usr/local/bin/php"}
	default:
		return []string{"/usr/bin/php", "/usr/local/bin/php", "/opt/php"}
	}
}

// Roots returns the discovery roots in priority order.
func (p Profile) Roots() discovery.Roots {
	roots := discovery.Roots{
		BinDirs: []string{
			"/usr/bin",
			"/usr/local/bin",
			"/opt/homebrew/bin",
			"/usr/lib",
			"/usr/local/lib",
		},
		CellarRoots: []string{
			"/usr/local/Cellar",
			"/opt/homebrew/Cellar",
		},
	}
	if p.Home != "" {
		roots.VersionRoots = []string{
			filepath.Join(p.Home, ".phpbrew", "php"),
			filepath.Join(p.Home, ".phpenv", "versions"),
		}
	}
	return roots
}

// InstallHints returns package-manager suggestions for installing the
// requested version pattern. The php.net manual link is always last.
func (p Profile) InstallHints(pattern string) []string {
	compact := strings.ReplaceAll(pattern, ".", "")

	var hints []string
	switch p.Family {
	case Linux:
		hints = []string{
			"Search your package manager:",
			"  dnf search php" + pattern + " php" + compact,
			"  apt search php" + pattern,
			"  zypper search php" + pattern,
			"Popular third-party repositories:",
			"  Remi (RHEL/Fedora/CentOS): https://rpms.remirepo.net/",
			"  Ondrej PPA (Ubuntu/Debian): https://launchpad.net/~ondrej/+archive/ubuntu/php",
		}
	case MacOS:
		hints = []string{
			"Using Homebrew:",
			"  brew install php@" + pattern,
			"If the formula is not found, try:",
			"  brew tap shivammathur/php",
			"  brew install shivammathur/php/php@" + pattern,
		}
	case BSD:
		hints = []string{
			"Using pkg:",
			"  pkg search php" + compact,
			"  pkg install php" + compact,
			"Or check your BSD's ports collection",
		}
	default:
		hints = []string{
			"Check your system's package manager for PHP " + pattern,
			"Or download from PHP.net",
		}
	}
	return append(hints, "For detailed installation instructions: "+ManualURL)
}
