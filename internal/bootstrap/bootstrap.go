// Package bootstrap implements the platform-specific first stage: ensure the
// OS package manager exists, register its buckets/taps, install the baseline
// package set including the bun runtime, then chain into the provisioning
// stage. Each installable item is re-queried for presence immediately before
// its install decision; a single failing item is logged and skipped, never
// aborting the run.
package bootstrap

import (
	"context"
	"fmt"
	"runtime"

	"aftr/internal/exec"
	"aftr/internal/logger"
	"aftr/internal/manifest"
	"aftr/internal/pkgmgr"
	"aftr/internal/provision"
)

// runtimePackage is the provisioning stage's prerequisite: the bun runtime
// that also installs the AI CLI globals.
const runtimePackage = "bun"

// Options configures a bootstrap run.
type Options struct {
	ManifestPath   string
	Remote         bool
	RemoteURL      string
	NonInteractive bool
	Runner         exec.Runner
	// OS is a GOOS value; defaults to runtime.GOOS. Tests set it explicitly.
	OS string
	// SkipProvision stops after stage 1 instead of chaining into the
	// provisioning stage.
	SkipProvision bool
}

// Run executes the bootstrap stage. Fatal errors are a missing/unparsable
// manifest and a package manager that is absent and cannot be installed;
// everything else degrades to warnings.
func Run(ctx context.Context, opts Options) error {
	if opts.Runner == nil {
		opts.Runner = exec.NewSystemRunner()
	}
	if opts.OS == "" {
		opts.OS = runtime.GOOS
	}

	manifestPath := opts.ManifestPath
	if opts.Remote {
		url := opts.RemoteURL
		if url == "" {
			url = DefaultRemoteURL
		}
		staged, err := StageRemote(url)
		if err != nil {
			return err
		}
		manifestPath = staged
	}

	// The manifest must parse before any installation is attempted: every
	// downstream step assumes a valid manifest.
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	mgr, err := pkgmgr.ForOS(opts.OS, opts.Runner)
	if err != nil {
		return err
	}

	if mgr.Installed() {
		logger.Info("[INFO] %s is already installed. Skipping.\n", mgr.Name)
	} else if err := mgr.Bootstrap(ctx); err != nil {
		// Without the manager nothing else can install.
		return fmt.Errorf("failed to install %s: %w", mgr.Name, err)
	}

	syncBuckets(ctx, mgr, m.BucketsFor(opts.OS))
	syncPackages(ctx, mgr, m.InstallPlan(opts.OS))
	ensureRuntime(ctx, opts.Runner, mgr)

	if opts.SkipProvision {
		return nil
	}
	return provision.Run(ctx, provision.Options{
		ManifestPath:   manifestPath,
		NonInteractive: opts.NonInteractive,
		Runner:         opts.Runner,
		OS:             opts.OS,
	})
}

// syncBuckets registers missing buckets/taps.
func syncBuckets(ctx context.Context, mgr *pkgmgr.Manager, buckets []string) {
	for _, bucket := range buckets {
		if mgr.HasBucket(ctx, bucket) {
			logger.Info("[INFO] Bucket %s is already registered. Skipping.\n", bucket)
			continue
		}
		logger.Info("[INFO] Adding bucket %s...\n", bucket)
		if err := mgr.AddBucket(ctx, bucket); err != nil {
			logger.Warn("[WARN] %v\n", err)
		}
	}
}

// syncPackages installs the baseline plan, skipping packages the manager
// already reports present.
func syncPackages(ctx context.Context, mgr *pkgmgr.Manager, plan []string) {
	for _, pkg := range plan {
		if mgr.HasPackage(ctx, pkg) {
			logger.Info("[INFO] %s is already installed. Skipping.\n", pkg)
			continue
		}
		logger.Info("[INFO] Installing %s...\n", pkg)
		if err := mgr.Install(ctx, pkg); err != nil {
			logger.Warn("[WARN] %v\n", err)
			continue
		}
		logger.Info("[INFO] Installed %s\n", pkg)
	}
}

// ensureRuntime verifies the provisioning stage's runtime prerequisite is
// actually present, installing it directly if the baseline plan missed it.
func ensureRuntime(ctx context.Context, runner exec.Runner, mgr *pkgmgr.Manager) {
	if _, err := runner.LookPath(runtimePackage); err == nil {
		logger.Debug("[DEBUG] Runtime %s found on PATH\n", runtimePackage)
		return
	}
	if mgr.HasPackage(ctx, runtimePackage) {
		// Installed this run; PATH refresh may lag within the same process.
		logger.Debug("[DEBUG] Runtime %s reported present by %s\n", runtimePackage, mgr.Name)
		return
	}
	logger.Info("[INFO] Installing runtime prerequisite %s...\n", runtimePackage)
	if err := mgr.Install(ctx, runtimePackage); err != nil {
		logger.Warn("[WARN] %v\n", err)
		logger.Warn("[WARN] The provisioning stage needs %s; install it manually with: %s install %s\n",
			runtimePackage, mgr.Name, runtimePackage)
	}
}
