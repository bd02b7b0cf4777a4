package util

import (
	"fmt"
	"os"
	"syscall"
)

// FileInfo identifies a log file well enough to tell whether page
// checkpoints recorded against it still apply. A changed Inode means the
// file was replaced; a smaller Size means it was truncated below offsets
// that may be on a page's stacks.
type FileInfo struct {
	ModTime int64
	Size    int64
	Inode   uint64
}

// Replaced reports whether the path now holds a different file than the one
// with the recorded inode.
func (fi *FileInfo) Replaced(inode uint64) bool {
	return fi.Inode != inode
}

// Shrunk reports whether the file is now shorter than the recorded size.
func (fi *FileInfo) Shrunk(size int64) bool {
	return fi.Size < size
}

// GetFileInfo stats a log file for page-state validation and change
// detection. Inodes are available on Linux and macOS only.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a log file", path)
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("no inode available for %s", path)
	}

	return &FileInfo{
		ModTime: stat.ModTime().Unix(),
		Size:    stat.Size(),
		Inode:   uint64(sysStat.Ino),
	}, nil
}
