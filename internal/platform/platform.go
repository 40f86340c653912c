package platform

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// ErrUnsupported is returned by Resolve for operating systems outside the
// fixed {darwin, linux, windows} set.
var ErrUnsupported = errors.New("unsupported platform")

const (
	// BinaryName is the simulator executable shipped in every release archive.
	BinaryName = "tappd-simulator"
	// SocketName is the unix socket the simulator binds in its working directory.
	SocketName = "tappd.sock"
	// AliasSocketName is the socket basename expected by dstack-named client
	// libraries. Both names refer to the same simulator socket directory.
	AliasSocketName = "dstack.sock"

	// DefaultVersion is the simulator release provisioned by the installer.
	DefaultVersion = "0.1.4"
	// DefaultDownloadBase is the HTTPS release host archives are fetched from.
	DefaultDownloadBase = "https://github.com/Leechael/tappd-simulator/releases/download"

	// windowsEndpoint is the loopback TCP address of the stubbed windows build.
	windowsEndpoint = "127.0.0.1:8090"
)

// MaxUnixSocketPath is the ceiling for a unix domain socket path. Darwin's
// sun_path is 104 bytes; Linux allows 108 but the stricter bound keeps
// install layouts portable across both.
const MaxUnixSocketPath = 104

// Strategy supplies the per-OS pieces of the simulator lifecycle: the
// release archive to download, the transport address clients dial, and
// whether installation is implemented at all. Implementations are
// stateless values; Resolve picks one from the running OS.
type Strategy interface {
	OS() string
	// ArchiveName returns the release archive filename for version.
	ArchiveName(version string) string
	// DownloadURL returns the archive URL under base for version.
	DownloadURL(base, version string) string
	// Endpoint returns the transport address of a simulator installed in
	// installDir: a socket path on unix platforms, host:port on windows.
	Endpoint(installDir string) string
	// Network is the net.Dial network matching Endpoint ("unix" or "tcp").
	Network() string
	// InstallSupported reports whether Install can provision this platform.
	InstallSupported() bool
}

// Resolve maps the running OS to its Strategy.
func Resolve() (Strategy, error) { return ResolveOS(runtime.GOOS) }

// ResolveOS maps an explicit GOOS value to its Strategy. Split out from
// Resolve so tests can exercise foreign platforms.
func ResolveOS(goos string) (Strategy, error) {
	switch goos {
	case "darwin":
		return Darwin{}, nil
	case "linux":
		return Linux{}, nil
	case "windows":
		return Windows{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, goos)
	}
}

// Darwin downloads the aarch64 apple build and dials a unix socket.
type Darwin struct{}

func (Darwin) OS() string { return "darwin" }

func (Darwin) ArchiveName(version string) string {
	return fmt.Sprintf("%s-%s-aarch64-apple-darwin.tgz", BinaryName, version)
}

func (d Darwin) DownloadURL(base, version string) string {
	return fmt.Sprintf("%s/v%s/%s", base, version, d.ArchiveName(version))
}

func (Darwin) Endpoint(installDir string) string {
	return filepath.Join(installDir, SocketName)
}

func (Darwin) Network() string { return "unix" }

func (Darwin) InstallSupported() bool { return true }

// Linux downloads the x86_64 musl build and dials a unix socket.
type Linux struct{}

func (Linux) OS() string { return "linux" }

func (Linux) ArchiveName(version string) string {
	return fmt.Sprintf("%s-%s-x86_64-linux-musl.tgz", BinaryName, version)
}

func (l Linux) DownloadURL(base, version string) string {
	return fmt.Sprintf("%s/v%s/%s", base, version, l.ArchiveName(version))
}

func (Linux) Endpoint(installDir string) string {
	return filepath.Join(installDir, SocketName)
}

func (Linux) Network() string { return "unix" }

func (Linux) InstallSupported() bool { return true }

// Windows is a stub: a descriptor exists and the probe dials a fixed
// loopback port, but installation is not implemented.
type Windows struct{}

func (Windows) OS() string { return "windows" }

func (Windows) ArchiveName(version string) string {
	return fmt.Sprintf("%s-%s-x86_64-pc-windows-msvc.zip", BinaryName, version)
}

func (w Windows) DownloadURL(base, version string) string {
	return fmt.Sprintf("%s/v%s/%s", base, version, w.ArchiveName(version))
}

func (Windows) Endpoint(string) string { return windowsEndpoint }

func (Windows) Network() string { return "tcp" }

func (Windows) InstallSupported() bool { return false }
