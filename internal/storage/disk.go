package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Usage reports the on-disk footprint of the article store and search index.
type Usage struct {
	DatabaseBytes int64 `json:"database_bytes"`
	IndexBytes    int64 `json:"index_bytes"`
}

// Total returns the combined size.
func (u Usage) Total() int64 {
	return u.DatabaseBytes + u.IndexBytes
}

// DiskUsage measures the database file (plus its WAL side files) and the index directory.
// Missing paths count as zero.
func DiskUsage(databasePath, indexPath string) (Usage, error) {
	var u Usage
	var err error
	if u.DatabaseBytes, err = pathSize(databasePath, databasePath+"-wal", databasePath+"-shm"); err != nil {
		return Usage{}, err
	}
	if u.IndexBytes, err = pathSize(indexPath); err != nil {
		return Usage{}, err
	}
	return u, nil
}

// pathSize sums files and directories (recursively); missing paths are skipped.
func pathSize(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
			continue
		}
		err = filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
