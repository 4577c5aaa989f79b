package bootstrap

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aftr/internal/manifest"
)

const remoteManifest = `
packages:
  core:
    - git
`

func serveFile(t *testing.T, name string, content []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+name {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func tarGzBundle(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zipBundle(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestStageRemoteBareManifest(t *testing.T) {
	srv := serveFile(t, "packages.yaml", []byte(remoteManifest))

	staged, err := StageRemote(srv.URL + "/packages.yaml")
	require.NoError(t, err)

	m, err := manifest.Load(staged)
	require.NoError(t, err)
	assert.Equal(t, []string{"git"}, m.InstallPlan("darwin"))
}

func TestStageRemoteTarGzBundle(t *testing.T) {
	bundle := tarGzBundle(t, map[string]string{
		"config/packages.yaml": remoteManifest,
		"config/README.md":     "bundle docs",
	})
	srv := serveFile(t, "aftr-config.tar.gz", bundle)

	staged, err := StageRemote(srv.URL + "/aftr-config.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "packages.yaml", filepath.Base(staged))

	m, err := manifest.Load(staged)
	require.NoError(t, err)
	assert.Equal(t, []string{"git"}, m.InstallPlan("darwin"))
}

func TestStageRemoteZipBundle(t *testing.T) {
	bundle := zipBundle(t, map[string]string{
		"packages.yaml": remoteManifest,
	})
	srv := serveFile(t, "aftr-config.zip", bundle)

	staged, err := StageRemote(srv.URL + "/aftr-config.zip")
	require.NoError(t, err)

	m, err := manifest.Load(staged)
	require.NoError(t, err)
	assert.Equal(t, []string{"git"}, m.InstallPlan("darwin"))
}

func TestStageRemoteBundleWithoutManifest(t *testing.T) {
	bundle := zipBundle(t, map[string]string{"other.yaml": "x: 1"})
	srv := serveFile(t, "aftr-config.zip", bundle)

	_, err := StageRemote(srv.URL + "/aftr-config.zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not contain packages.yaml")
}

func TestStageRemoteNotFound(t *testing.T) {
	srv := serveFile(t, "packages.yaml", []byte(remoteManifest))

	_, err := StageRemote(srv.URL + "/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 404")
}

func TestBundlePathRejectsEscapingEntries(t *testing.T) {
	_, err := bundlePath(t.TempDir(), "../evil.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes staging directory")

	target, err := bundlePath("/tmp/stage", "config/packages.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/stage", "config", "packages.yaml"), target)
}

func TestIsArchive(t *testing.T) {
	assert.True(t, isArchive("bundle.tar.gz"))
	assert.True(t, isArchive("bundle.zip"))
	assert.True(t, isArchive("bundle.7z"))
	assert.True(t, isArchive("bundle.tar.xz"))
	assert.False(t, isArchive("packages.yaml"))
}
