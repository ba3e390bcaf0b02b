package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// GetRCFilePath returns the path to the shell's RC file
//
// Bash uses ~/.bashrc when it exists and ~/.bash_profile otherwise.
func GetRCFilePath(shell ShellType) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	switch shell {
	case ShellBash:
		bashrc := filepath.Join(homeDir, ".bashrc")
		if exists, _ := RCFileExists(bashrc); exists {
			return bashrc, nil
		}
		return filepath.Join(homeDir, ".bash_profile"), nil
	case ShellZsh:
		return filepath.Join(homeDir, ".zshrc"), nil
	case ShellFish:
		return filepath.Join(homeDir, ".config", "fish", "config.fish"), nil
	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// RCFileExists checks if the RC file exists
func RCFileExists(rcPath string) (bool, error) {
	info, err := os.Stat(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &RCFileError{
			Path:    rcPath,
			Message: "failed to stat file",
			Cause:   err,
		}
	}

	if !info.Mode().IsRegular() {
		return false, &RCFileError{
			Path:    rcPath,
			Message: "not a regular file",
		}
	}

	return true, nil
}

// HasManagedBlock reports whether content holds a complete managed block.
func HasManagedBlock(content string) bool {
	_, _, ok := findManagedBlock(content)
	return ok
}

// findManagedBlock returns the byte range of the first complete block.
// A start marker followed by another start marker before any end marker is
// an orphan and is skipped, so its end is never borrowed from a later block.
func findManagedBlock(content string) (start, end int, ok bool) {
	offset := 0
	for {
		rel := strings.Index(content[offset:], MarkerStart)
		if rel < 0 {
			return 0, 0, false
		}
		start = offset + rel
		body := start + len(MarkerStart)

		endRel := strings.Index(content[body:], MarkerEnd)
		if endRel < 0 {
			return 0, 0, false
		}
		if next := strings.Index(content[body:], MarkerStart); next >= 0 && next < endRel {
			offset = body + next
			continue
		}
		return start, body + endRel + len(MarkerEnd), true
	}
}

// RemoveManagedBlock cuts every complete managed block out of content and
// joins the remaining halves with a single newline. A start marker without
// an end marker is left alone.
func RemoveManagedBlock(content string) string {
	for {
		start, end, ok := findManagedBlock(content)
		if !ok {
			return content
		}

		before := strings.TrimRight(content[:start], " \t\r\n")
		after := strings.TrimLeft(content[end:], " \t\r\n")
		switch {
		case after == "":
			content = before
		case before == "":
			content = after
		default:
			content = before + "\n" + after
		}
	}
}

// AppendManagedBlock removes any existing block and appends block, separated
// from the remaining content by one blank line.
func AppendManagedBlock(content, block string) string {
	base := strings.TrimRight(RemoveManagedBlock(content), " \t\r\n")
	if base == "" {
		return block
	}
	return base + "\n\n" + block
}

// ReadRCFile returns the profile content, or "" when it does not exist.
func ReadRCFile(rcPath string) (string, bool, error) {
	exists, err := RCFileExists(rcPath)
	if err != nil || !exists {
		return "", false, err
	}

	content, err := os.ReadFile(rcPath)
	if err != nil {
		return "", false, &RCFileError{
			Path:    rcPath,
			Message: "failed to read file",
			Cause:   err,
		}
	}
	return string(content), true, nil
}

// WriteRCFile atomically replaces the profile. A symlinked profile is
// resolved first so the link itself survives and its target is updated.
func WriteRCFile(rcPath, content string) error {
	target := rcPath
	if resolved, err := filepath.EvalSymlinks(rcPath); err == nil {
		target = resolved
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to create parent directory",
			Cause:   err,
		}
	}

	existed, _ := RCFileExists(target)
	if err := atomic.WriteFile(target, strings.NewReader(content)); err != nil {
		return &RCFileError{
			Path:    rcPath,
			Message: "failed to write file",
			Cause:   err,
		}
	}

	if !existed {
		if err := os.Chmod(target, profileFileMode); err != nil {
			return &RCFileError{
				Path:    rcPath,
				Message: "failed to set permissions",
				Cause:   err,
			}
		}
	}

	return nil
}

// BackupRCFile copies the profile to <profile>.revenium-backup-<timestamp>.
// A numeric suffix is added if that name is taken.
func BackupRCFile(rcPath string, now time.Time) (string, error) {
	info, err := os.Stat(rcPath)
	if err != nil {
		return "", &RCFileError{
			Path:    rcPath,
			Message: "failed to stat file for backup",
			Cause:   err,
		}
	}

	content, err := os.ReadFile(rcPath)
	if err != nil {
		return "", &RCFileError{
			Path:    rcPath,
			Message: "failed to read file for backup",
			Cause:   err,
		}
	}

	base := backupPrefix(rcPath) + now.Format(backupTimeFormat)
	backupPath := base
	for i := 1; ; i++ {
		if _, err := os.Lstat(backupPath); errors.Is(err, fs.ErrNotExist) {
			break
		}
		backupPath = fmt.Sprintf("%s-%d", base, i)
	}

	if err := os.WriteFile(backupPath, content, info.Mode().Perm()); err != nil {
		return "", &RCFileError{
			Path:    backupPath,
			Message: "failed to write backup file",
			Cause:   err,
		}
	}

	return backupPath, nil
}

func backupPrefix(rcPath string) string {
	return rcPath + BackupSuffix + "-"
}

// ListBackups returns the backups of rcPath, newest first.
func ListBackups(rcPath string) ([]string, error) {
	dir := filepath.Dir(rcPath)
	prefix := filepath.Base(backupPrefix(rcPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &RCFileError{
			Path:    dir,
			Message: "failed to list backups",
			Cause:   err,
		}
	}

	type backup struct {
		path    string
		modTime time.Time
	}
	var backups []backup
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: filepath.Join(dir, e.Name()), modTime: info.ModTime()})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].modTime.Equal(backups[j].modTime) {
			return backups[i].modTime.After(backups[j].modTime)
		}
		si, ni := backupOrder(prefix, filepath.Base(backups[i].path))
		sj, nj := backupOrder(prefix, filepath.Base(backups[j].path))
		if si != sj {
			return si > sj
		}
		return ni > nj
	})

	paths := make([]string, len(backups))
	for i, b := range backups {
		paths[i] = b.path
	}
	return paths, nil
}

// backupOrder splits a backup name into its timestamp and collision counter.
// The first backup of a second has counter 0.
func backupOrder(prefix, name string) (string, int) {
	rest := strings.TrimPrefix(name, prefix)
	if len(rest) <= len(backupTimeFormat) {
		return rest, 0
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(rest[len(backupTimeFormat):], "-"))
	if err != nil {
		return rest, 0
	}
	return rest[:len(backupTimeFormat)], seq
}

// PruneBackups deletes all but the keep newest backups of rcPath and returns
// the removed paths. It stops at the first failure.
func PruneBackups(rcPath string, keep int) ([]string, error) {
	backups, err := ListBackups(rcPath)
	if err != nil {
		return nil, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(backups) <= keep {
		return nil, nil
	}

	var removed []string
	for _, path := range backups[keep:] {
		if err := os.Remove(path); err != nil {
			return removed, &RCFileError{
				Path:    path,
				Message: "failed to remove old backup",
				Cause:   err,
			}
		}
		removed = append(removed, path)
	}
	return removed, nil
}
