package memory

import (
	"fmt"
	"math"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FileRegion is a Memory backed by a memory-mapped file. It is used by hosts
// and tooling that persist regions to disk; a region file always holds a
// whole number of pages.
type FileRegion struct {
	f    *os.File
	mm   mmap.MMap // nil while the file is empty
	path string
}

// OpenFileRegion opens or creates a region file. An existing file must hold
// a whole number of pages.
func OpenFileRegion(path string) (*FileRegion, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open region file")
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "stat region file")
	}
	if st.Size()%PageSize != 0 {
		_ = f.Close()
		return nil, errors.Errorf("region file %q size %d is not a whole number of pages", path, st.Size())
	}
	r := &FileRegion{f: f, path: path}
	if st.Size() > 0 {
		if r.mm, err = mmap.Map(f, mmap.RDWR, 0); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "mmap region file")
		}
	}
	return r, nil
}

// Close flushes and unmaps the region file.
func (r *FileRegion) Close() error {
	if r.mm != nil {
		if err := r.mm.Flush(); err != nil {
			return errors.Wrap(err, "flush region file")
		}
		if err := r.mm.Unmap(); err != nil {
			return errors.Wrap(err, "unmap region file")
		}
		r.mm = nil
	}
	return r.f.Close()
}

func (r *FileRegion) Size() uint64 {
	return uint64(len(r.mm)) / PageSize
}

func (r *FileRegion) Grow(pages uint64) int64 {
	if pages > (math.MaxInt64-uint64(len(r.mm)))/PageSize {
		return -1 // file size must stay within int64
	}
	newSize := r.Size() + pages
	if r.mm != nil {
		if err := r.mm.Unmap(); err != nil {
			logrus.WithError(err).WithField("path", r.path).Error("Region unmap failed")
			return -1
		}
		r.mm = nil
	}
	if err := r.f.Truncate(int64(newSize * PageSize)); err != nil {
		logrus.WithError(err).WithField("path", r.path).Error("Region grow failed")
		return -1
	}
	mm, err := mmap.Map(r.f, mmap.RDWR, 0)
	if err != nil {
		logrus.WithError(err).WithField("path", r.path).Error("Region remap failed")
		return -1
	}
	r.mm = mm
	return int64(newSize)
}

func (r *FileRegion) Read(offset uint64, dst []byte) {
	r.checkRange(offset, uint64(len(dst)), "read")
	copy(dst, r.mm[offset:])
}

func (r *FileRegion) Write(offset uint64, src []byte) {
	r.checkRange(offset, uint64(len(src)), "write")
	copy(r.mm[offset:], src)
}

func (r *FileRegion) checkRange(offset, n uint64, op string) {
	size := uint64(len(r.mm))
	if offset > size || n > size-offset {
		panic(fmt.Sprintf("memory: %s of %d bytes at offset %d out of range (size %d bytes)",
			op, n, offset, size))
	}
}
