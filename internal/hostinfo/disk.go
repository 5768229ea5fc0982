// Package hostinfo reports local facts shown next to the session config,
// such as free space where detected clips are written.
package hostinfo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
)

// DiskSpace is the usage of the filesystem holding a directory.
type DiskSpace struct {
	Path        string // the existing directory actually measured
	Total       uint64
	Free        uint64
	UsedPercent float64
}

// String renders e.g. "12 GB free of 250 GB (95.2% used)".
func (d DiskSpace) String() string {
	return fmt.Sprintf("%s free of %s (%.1f%% used)",
		humanize.Bytes(d.Free), humanize.Bytes(d.Total), d.UsedPercent)
}

// Low reports whether less than minFree bytes remain.
func (d DiskSpace) Low(minFree uint64) bool { return d.Free < minFree }

// OutputDirSpace measures the filesystem that holds dir. The directory may
// not exist yet; the nearest existing parent is measured instead.
func OutputDirSpace(dir string) (DiskSpace, error) {
	if dir == "" {
		dir = "."
	}
	path, err := nearestExisting(dir)
	if err != nil {
		return DiskSpace{}, err
	}
	u, err := disk.Usage(path)
	if err != nil {
		return DiskSpace{}, fmt.Errorf("disk usage of %s: %w", path, err)
	}
	return DiskSpace{Path: path, Total: u.Total, Free: u.Free, UsedPercent: u.UsedPercent}, nil
}

func nearestExisting(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no existing parent for %s", dir)
		}
		abs = parent
	}
}
