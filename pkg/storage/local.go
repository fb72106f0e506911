package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/VDECKSHOP/backend/config"
)

// localDisk is the local-filesystem driver. Uploaded files end up under
// the configured root and are served back by the /uploads file server.
type localDisk struct {
	root    string // absolute root directory
	baseURL string // public URL prefix for URL(); may be empty for relative URLs
}

func newLocalDisk() *localDisk {
	root := config.StorageLocalRoot()
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &localDisk{
		root:    root,
		baseURL: strings.TrimRight(config.StorageURL(), "/"),
	}
}

// Root is the absolute directory files live under; the HTTP layer mounts
// a file server on it.
func (d *localDisk) Root() string { return d.root }

func (d *localDisk) abs(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

func (d *localDisk) Put(path string, content []byte) error {
	return d.PutStream(path, bytes.NewReader(content))
}

func (d *localDisk) PutStream(path string, r io.Reader) error {
	full := d.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(d.abs(path))
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", path, err)
	}
	return data, nil
}

func (d *localDisk) GetStream(path string) (io.ReadCloser, error) {
	f, err := os.Open(d.abs(path))
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", path, err)
	}
	return f, nil
}

func (d *localDisk) Exists(path string) bool {
	_, err := os.Stat(d.abs(path))
	return err == nil
}

func (d *localDisk) Size(path string) (int64, error) {
	info, err := os.Stat(d.abs(path))
	if err != nil {
		return 0, fmt.Errorf("storage/local: size %s: %w", path, err)
	}
	return info.Size(), nil
}

// URL returns "/<path>" relative to the server when no STORAGE_URL is
// configured, which is what the storefront stores in paymentProof.
func (d *localDisk) URL(path string) string {
	clean := strings.TrimLeft(filepath.ToSlash(path), "/")
	if d.baseURL == "" {
		return "/" + clean
	}
	return d.baseURL + "/" + clean
}

func (d *localDisk) Delete(path string) error {
	err := os.Remove(d.abs(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

// LocalRoot returns the absolute directory of the local disk so the HTTP
// layer can mount a static file server on it. Returns "" when the local
// disk has not been booted or was replaced by a custom Disk.
func LocalRoot() string {
	managerMu.RLock()
	d, ok := disks["local"].(*localDisk)
	managerMu.RUnlock()
	if !ok {
		return ""
	}
	return d.Root()
}
