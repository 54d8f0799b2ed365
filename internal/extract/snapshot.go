package extract

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// errSnapshotUnsupported reports that no point-in-time snapshot facility is
// available on this platform.
var errSnapshotUnsupported = errors.New("volume snapshot not supported on this platform")

// stageLocked makes a locked artifact readable: first through a
// point-in-time snapshot of its volume, then by falling back to an
// already-staged copy under stagingDir. With neither available the artifact
// counts as unreadable.
func stageLocked(path, stagingDir string, candidates []string) (string, error) {
	staged, err := snapshotCopy(path, stagingDir)
	if err == nil {
		return staged, nil
	}

	for _, name := range candidates {
		fallback := filepath.Join(stagingDir, name)
		if info, statErr := os.Stat(fallback); statErr == nil && info.Mode().IsRegular() {
			return fallback, nil
		}
	}

	return "", fmt.Errorf("%w: %s (snapshot: %v, no staged copy)", ErrUnreadable, filepath.Base(path), err)
}

// snapshotCopy creates a shadow copy of the artifact's volume, copies the
// artifact out through the snapshot device, and deletes the snapshot again,
// so the running owner of the file is never disturbed.
func snapshotCopy(path, stagingDir string) (string, error) {
	if runtime.GOOS != "windows" {
		return "", errSnapshotUnsupported
	}

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	volume := filepath.VolumeName(path) + `\`
	relative := strings.TrimPrefix(path, volume)
	staged := filepath.Join(stagingDir, filepath.Base(path))

	script := fmt.Sprintf(`
$r = (Get-WmiObject -List Win32_ShadowCopy).Create('%s', 'ClientAccessible')
if ($r.ReturnValue -ne 0) { exit 1 }
$shadow = Get-WmiObject Win32_ShadowCopy | Where-Object { $_.ID -eq $r.ShadowID }
try {
  Copy-Item -LiteralPath ($shadow.DeviceObject + '\%s') -Destination '%s' -Force
} finally {
  $shadow.Delete()
}`, volume, relative, staged)

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("shadow copy failed: %v: %s", err, strings.TrimSpace(string(out)))
	}

	if info, err := os.Stat(staged); err != nil || !info.Mode().IsRegular() {
		return "", errors.New("shadow copy produced no file")
	}
	return staged, nil
}
