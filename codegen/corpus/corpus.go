// Copyright 2025 R5
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

// Package corpus persists generated programs in LevelDB, keyed by the
// keccak256 hash of their code so that duplicates are stored once.
package corpus

import (
	"bytes"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// minCache is the minimum amount of memory in megabytes to allocate to leveldb
	// read and write caching, split half and half.
	minCache = 16

	// minHandles is the minimum number of files handles to allocate to the open
	// database files.
	minHandles = 16
)

// codePrefix + hash -> code
var codePrefix = []byte("c")

func codeKey(hash common.Hash) []byte {
	return append(bytes.Clone(codePrefix), hash.Bytes()...)
}

// Corpus is a deduplicating program store.
type Corpus struct {
	fn string // filename for reporting
	db *leveldb.DB

	lock sync.Mutex // serialises check-then-write in Put
	log  log.Logger
}

// New opens, or creates, a corpus in the given directory.
func New(file string, cache int, handles int) (*Corpus, error) {
	cache = max(cache, minCache)
	handles = max(handles, minHandles)

	logger := log.New("database", file)
	logger.Info("Opening program corpus", "cache", common.StorageSize(cache*1024*1024), "handles", handles)

	options := &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
	}
	db, err := leveldb.OpenFile(file, options)
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &Corpus{fn: file, db: db, log: logger}, nil
}

// NewMemory returns a corpus backed by memory only.
func NewMemory() (*Corpus, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &Corpus{db: db, log: log.New("database", "memory")}, nil
}

// Put stores code unless an identical program is already present. It returns
// the code hash and whether the code was newly added.
func (c *Corpus) Put(code []byte) (common.Hash, bool, error) {
	hash := crypto.Keccak256Hash(code)
	key := codeKey(hash)

	c.lock.Lock()
	defer c.lock.Unlock()

	if ok, err := c.db.Has(key, nil); err != nil || ok {
		return hash, false, err
	}
	return hash, true, c.db.Put(key, code, nil)
}

// Has reports whether code with the given hash is stored.
func (c *Corpus) Has(hash common.Hash) (bool, error) {
	return c.db.Has(codeKey(hash), nil)
}

// Get retrieves the code with the given hash.
func (c *Corpus) Get(hash common.Hash) ([]byte, error) {
	return c.db.Get(codeKey(hash), nil)
}

// Iterate calls fn for every stored program in hash order, stopping at the
// first error.
func (c *Corpus) Iterate(fn func(hash common.Hash, code []byte) error) error {
	it := c.db.NewIterator(util.BytesPrefix(codePrefix), nil)
	defer it.Release()

	for it.Next() {
		hash := common.BytesToHash(it.Key()[len(codePrefix):])
		if err := fn(hash, common.CopyBytes(it.Value())); err != nil {
			return err
		}
	}
	return it.Error()
}

// Count returns the number of stored programs.
func (c *Corpus) Count() (int, error) {
	n := 0
	err := c.Iterate(func(common.Hash, []byte) error {
		n++
		return nil
	})
	return n, err
}

// Close flushes and closes the underlying database.
func (c *Corpus) Close() error {
	if c.fn != "" {
		c.log.Info("Closing program corpus")
	}
	return c.db.Close()
}
