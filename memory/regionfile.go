package memory

import (
	"fmt"
	"strconv"
	"strings"
)

// Region files hold one persistent region each inside a data directory.
const (
	regionFilePrefix = "region-"
	regionFileSuffix = ".mem"
)

// RegionFileName returns the file name a region is persisted under.
func RegionFileName(id ID) string {
	return fmt.Sprintf("%s%03d%s", regionFilePrefix, uint8(id), regionFileSuffix)
}

// ParseRegionFileName extracts the region id from a region file name.
func ParseRegionFileName(name string) (ID, bool) {
	if !strings.HasPrefix(name, regionFilePrefix) || !strings.HasSuffix(name, regionFileSuffix) {
		return 0, false
	}
	numStr := strings.TrimSuffix(strings.TrimPrefix(name, regionFilePrefix), regionFileSuffix)
	n, err := strconv.ParseUint(numStr, 10, 8)
	if err != nil {
		return 0, false
	}
	return ID(n), true
}

// NewFileManager returns a Manager whose regions are file-backed inside
// dataDir. Region files that cannot be opened panic: the manager interface
// has no error path, failing to open persistent memory is fatal.
func NewFileManager(dataDir string) *Manager {
	return NewManager(func(id ID) Memory {
		r, err := OpenFileRegion(dataDir + "/" + RegionFileName(id))
		if err != nil {
			panic(fmt.Sprintf("memory: open region %s: %v", id, err))
		}
		return r
	})
}
