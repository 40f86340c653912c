package installer

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/Phala-Network/phala-cloud-cli/internal/platform"
)

// DownloadError wraps a failure to fetch the release archive. Install is
// safely retryable after one.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string { return fmt.Sprintf("download %s: %v", e.URL, e.Err) }
func (e *DownloadError) Unwrap() error { return e.Err }

// ExtractionError wraps a failure to unpack a downloaded archive.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extract %s: %v", e.Archive, e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// Installer provisions the simulator binary for one platform/version pair
// under Root/<Version>/. The install tree's existence is the only install
// state; there is no manifest. Two installers racing on the same root can
// corrupt a partially extracted tree; callers accept that limitation.
type Installer struct {
	Strategy     platform.Strategy
	Root         string
	Version      string
	DownloadBase string
	Client       *http.Client
	Logger       *slog.Logger
}

// Dir returns the version-named install directory.
func (i *Installer) Dir() string { return filepath.Join(i.Root, i.Version) }

// BinaryPath returns the expected executable path inside Dir.
func (i *Installer) BinaryPath() string {
	name := platform.BinaryName
	if i.Strategy.OS() == "windows" {
		name += ".exe"
	}
	return filepath.Join(i.Dir(), name)
}

// Installed reports whether the install directory and the executable inside
// it both exist. No content verification is performed.
func (i *Installer) Installed() bool {
	if fi, err := os.Stat(i.Dir()); err != nil || !fi.IsDir() {
		return false
	}
	fi, err := os.Stat(i.BinaryPath())
	return err == nil && fi.Mode().IsRegular()
}

// Install downloads and extracts the platform archive unless the binary is
// already present. The archive is removed after a successful extraction; a
// partial download left by an interrupted run is re-downloaded from scratch
// on the next call.
func (i *Installer) Install(ctx context.Context) error {
	if i.Installed() {
		return nil
	}
	if !i.Strategy.InstallSupported() {
		return fmt.Errorf("%w: simulator install is not implemented on %s",
			platform.ErrUnsupported, i.Strategy.OS())
	}
	if err := os.MkdirAll(i.Root, 0o750); err != nil {
		return err
	}
	url := i.Strategy.DownloadURL(i.base(), i.Version)
	archive := filepath.Join(i.Root, i.Strategy.ArchiveName(i.Version))
	i.log().Info("downloading simulator", "url", url)
	if err := i.download(ctx, url, archive); err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	if err := extractTarGz(archive, i.Dir()); err != nil {
		return &ExtractionError{Archive: archive, Err: err}
	}
	_ = os.Remove(archive)
	i.log().Info("simulator installed", "dir", i.Dir())
	return nil
}

func (i *Installer) base() string {
	if i.DownloadBase != "" {
		return i.DownloadBase
	}
	return platform.DefaultDownloadBase
}

func (i *Installer) client() *http.Client {
	if i.Client != nil {
		return i.Client
	}
	return &http.Client{Timeout: 5 * time.Minute}
}

func (i *Installer) log() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return slog.Default()
}

func (i *Installer) download(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := i.client().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return err
	}
	return f.Close()
}

// extractTarGz unpacks src into dst, stripping the archive's own top-level
// directory component so the executable lands directly in dst.
func extractTarGz(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		rel, ok := stripTopLevel(hdr.Name)
		if !ok {
			continue
		}
		target, err := securePath(dst, rel)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o750); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return err
			}
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			// symlinks and special files are not expected in release archives
		}
	}
}

// stripTopLevel drops the leading path element of an archive member name.
// The top-level directory entry itself reports ok=false.
func stripTopLevel(name string) (string, bool) {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	_, rest, found := strings.Cut(name, "/")
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

// securePath joins rel under root and rejects members that would escape it.
func securePath(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, filepath.Clean(root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member escapes install dir: %s", rel)
	}
	return target, nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	// #nosec G304 -- path is validated by securePath
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil { // #nosec G110 -- trusted release archive
		_ = f.Close()
		return err
	}
	return f.Close()
}
