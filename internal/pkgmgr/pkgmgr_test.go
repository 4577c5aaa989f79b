package pkgmgr

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aftr/internal/exec"
	"aftr/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

type stubRunner struct {
	calls   []string
	results map[string]exec.Result
	onPath  map[string]bool
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) (exec.Result, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	s.calls = append(s.calls, cmd)
	if res, ok := s.results[cmd]; ok {
		return res, nil
	}
	return exec.Result{}, nil
}

func (s *stubRunner) LookPath(name string) (string, error) {
	if s.onPath[name] {
		return "/usr/local/bin/" + name, nil
	}
	return "", errors.New("not found on PATH")
}

func TestForOS(t *testing.T) {
	mgr, err := ForOS("windows", &stubRunner{})
	require.NoError(t, err)
	assert.Equal(t, "scoop", mgr.Name)

	mgr, err = ForOS("darwin", &stubRunner{})
	require.NoError(t, err)
	assert.Equal(t, "brew", mgr.Name)

	_, err = ForOS("linux", &stubRunner{})
	assert.Error(t, err)
}

func TestInstalled(t *testing.T) {
	runner := &stubRunner{onPath: map[string]bool{"brew": true}}
	mgr, err := ForOS("darwin", runner)
	require.NoError(t, err)
	assert.True(t, mgr.Installed())

	mgr, err = ForOS("windows", runner)
	require.NoError(t, err)
	assert.False(t, mgr.Installed())
}

func TestScoopHasPackageParsesListing(t *testing.T) {
	runner := &stubRunner{
		results: map[string]exec.Result{
			"scoop list git": {Output: "Installed apps matching 'git':\n\ngit 2.47.0 main\ngithub 3.4.6 extras\n"},
			"scoop list jq":  {Output: "No matches found.\n"},
		},
	}
	mgr, err := ForOS("windows", runner)
	require.NoError(t, err)

	// Matching is on the exact name column: "github" must not satisfy a
	// query for "git", and vice versa.
	assert.True(t, mgr.HasPackage(context.Background(), "git"))
	assert.False(t, mgr.HasPackage(context.Background(), "jq"))
}

func TestBrewHasPackageUsesExitCode(t *testing.T) {
	runner := &stubRunner{
		results: map[string]exec.Result{
			"brew list jq": {ExitCode: 1, Output: "Error: No such keg"},
		},
	}
	mgr, err := ForOS("darwin", runner)
	require.NoError(t, err)

	assert.True(t, mgr.HasPackage(context.Background(), "git"))
	assert.False(t, mgr.HasPackage(context.Background(), "jq"))
}

func TestHasBucketMatchesShortName(t *testing.T) {
	runner := &stubRunner{
		results: map[string]exec.Result{
			"scoop bucket list": {Output: "Name    Source\n----    ------\nmain    https://github.com/ScoopInstaller/Main\nextras  https://github.com/ScoopInstaller/Extras\n"},
		},
	}
	mgr, err := ForOS("windows", runner)
	require.NoError(t, err)

	assert.True(t, mgr.HasBucket(context.Background(), "extras"))
	assert.False(t, mgr.HasBucket(context.Background(), "versions"))
}

func TestInstallReportsFailure(t *testing.T) {
	runner := &stubRunner{
		results: map[string]exec.Result{
			"brew install broken": {ExitCode: 1, Output: "Error: formula not found"},
		},
	}
	mgr, err := ForOS("darwin", runner)
	require.NoError(t, err)

	err = mgr.Install(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formula not found")

	assert.NoError(t, mgr.Install(context.Background(), "fine"))
}

func TestListInstalled(t *testing.T) {
	runner := &stubRunner{
		results: map[string]exec.Result{
			"brew list": {Output: "git\njq\n"},
		},
	}
	mgr, err := ForOS("darwin", runner)
	require.NoError(t, err)

	out, err := mgr.ListInstalled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "git\njq\n", out)
}
