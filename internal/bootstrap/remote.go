package bootstrap

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"aftr/internal/logger"
)

// DefaultRemoteURL is the manifest fetched in remote-execution mode, when
// the bootstrap is piped from the network with no local file context.
const DefaultRemoteURL = "https://raw.githubusercontent.com/aftr-dev/aftr/main/packages.yaml"

// ManifestFileName is the manifest filename looked up inside staged bundles.
const ManifestFileName = "packages.yaml"

// StageRemote fetches the manifest (or a config bundle containing it) from
// url into a fresh temporary directory and returns the local manifest path.
// Staging to a writable temp dir is required because some restricted
// execution environments disallow running from the mapped source location.
func StageRemote(url string) (string, error) {
	dir, err := os.MkdirTemp("", "aftr-bootstrap-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	logger.Debug("[DEBUG] Staging remote manifest from %s into %s\n", url, dir)

	name := path.Base(url)
	if name == "." || name == "/" {
		name = ManifestFileName
	}
	staged := filepath.Join(dir, name)
	if err := downloadFile(url, staged); err != nil {
		return "", err
	}

	if !isArchive(staged) {
		return staged, nil
	}

	extracted := filepath.Join(dir, "bundle")
	if err := os.MkdirAll(extracted, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}
	if err := extractBundle(staged, extracted); err != nil {
		return "", fmt.Errorf("failed to extract config bundle %s: %w", name, err)
	}
	return findManifest(extracted)
}

// findManifest locates packages.yaml inside an extracted bundle tree.
func findManifest(root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == ManifestFileName {
			found = p
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan bundle for %s: %w", ManifestFileName, err)
	}
	if found == "" {
		return "", fmt.Errorf("config bundle does not contain %s", ManifestFileName)
	}
	return found, nil
}

// downloadFile downloads the content at url to destPath.
func downloadFile(url, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded %s to %s\n", url, destPath)
	return nil
}
