// Package storage handles the lower level support for reading and writing
// blocks to disk in their binary encoding.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/encode"
)

// Disk represents the serialization implementation for storing each block in
// its own file on disk. This implements the database.Storage interface.
type Disk struct {
	dbPath string
}

// NewDisk constructs a Disk value for use.
func NewDisk(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new block and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write stores the binary encoding of the specified block on disk in a file
// labeled with the block height. The block id is stored alongside the
// contents so corruption can be detected on reload.
func (d *Disk) Write(height uint64, block database.Block) error {
	var e encode.Encoder
	e.Bytes(block.ID)
	e.Bytes(block.Encode())

	f, err := os.OpenFile(d.getPath(height), os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(e.Data()); err != nil {
		return err
	}

	return nil
}

// GetBlock reads the file for the specified height and reconstructs the
// block, validating the stored id against the decoded contents.
func (d *Disk) GetBlock(height uint64) (database.Block, error) {
	data, err := os.ReadFile(d.getPath(height))
	if err != nil {
		return database.Block{}, err
	}

	dec := encode.NewDecoder(data)

	id, err := dec.Bytes()
	if err != nil {
		return database.Block{}, err
	}

	body, err := dec.Bytes()
	if err != nil {
		return database.Block{}, err
	}

	if err := dec.Finish(); err != nil {
		return database.Block{}, err
	}

	block, err := database.DecodeBlock(body)
	if err != nil {
		return database.Block{}, err
	}

	if !block.ID.Equal(id) {
		return database.Block{}, fmt.Errorf("%w: stored %s, derived %s", database.ErrCorruptBlock, encode.Digest(id), block.ID)
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks on disk
// starting with the block at height 0.
func (d *Disk) ForEach() database.Iterator {
	return &DiskIterator{disk: d}
}

// Reset will clear out the chain on disk.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}

	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the file for the specified height.
func (d *Disk) getPath(height uint64) string {
	name := strconv.FormatUint(height, 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.blk", name))
}

// =============================================================================

// DiskIterator represents the iteration implementation for walking through
// and reading blocks on disk. This implements the database.Iterator interface.
type DiskIterator struct {
	disk    *Disk
	current uint64
	started bool
	eoc     bool
}

// Next retrieves the next block from disk.
func (di *DiskIterator) Next() (database.Block, error) {
	if di.eoc {
		return database.Block{}, errors.New("end of chain")
	}

	if di.started {
		di.current++
	}
	di.started = true

	block, err := di.disk.GetBlock(di.current)
	if errors.Is(err, fs.ErrNotExist) {
		di.eoc = true
	}

	return block, err
}

// Done returns the end of chain value.
func (di *DiskIterator) Done() bool {
	return di.eoc
}
