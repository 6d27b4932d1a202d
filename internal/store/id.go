package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	idEntropyMu sync.Mutex
)

// NewID returns a time-ordered ULID string.
func NewID() string {
	idEntropyMu.Lock()
	defer idEntropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), idEntropy).String()
}

// NewTaggedID prefixes a ULID with tag, e.g. conn_01J....
func NewTaggedID(tag string) string {
	return tag + "_" + NewID()
}
