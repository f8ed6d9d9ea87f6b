package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetq/internal/db"
	"github.com/kailas-cloud/assetq/internal/domain"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "assetq:"

const seqSuffix = ":seq"

// store is the consumer interface for snapshots (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores whole-collection snapshots in a KV store.
type Repo struct {
	store  store
	prefix string
	codec  Codec
	ttl    time.Duration
	newID  func() string
}

// New creates a snapshot repository. A nil codec selects JSON.
func New(s store, prefix string, codec Codec) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Repo{store: s, prefix: prefix, codec: codec, newID: uuid.NewString}
}

// WithTTL returns a copy of the repository that expires snapshots after ttl.
func (r *Repo) WithTTL(ttl time.Duration) *Repo {
	cp := *r
	cp.ttl = ttl
	return &cp
}

// Codec returns the codec used for writes.
func (r *Repo) Codec() Codec { return r.codec }

// Save stamps s with a fresh revision and sequence and replaces the stored snapshot.
func (r *Repo) Save(ctx context.Context, s domsnap.Snapshot) (domsnap.Snapshot, error) {
	key := r.key(s.Collection())
	seq, err := r.store.IncrBy(ctx, key+seqSuffix, 1)
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("incrby %s: %w", key+seqSuffix, err)
	}
	stamped := s.WithRevision(r.newID(), seq)

	data, err := r.codec.Encode(&stamped)
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("encode %s: %w", key, err)
	}
	if r.ttl > 0 {
		err = r.store.SetWithTTL(ctx, key, data, r.ttl)
	} else {
		err = r.store.Set(ctx, key, data)
	}
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("set %s: %w", key, err)
	}
	return stamped, nil
}

// Load returns the latest snapshot of a collection. Any codec is accepted on read.
func (r *Repo) Load(ctx context.Context, collection string) (domsnap.Snapshot, error) {
	key := r.key(collection)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsnap.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, collection)
		}
		return domsnap.Snapshot{}, fmt.Errorf("get %s: %w", key, err)
	}
	s, err := Decode(data)
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return s, nil
}

// Delete removes a collection snapshot. The sequence counter is kept so revisions stay monotonic.
func (r *Repo) Delete(ctx context.Context, collection string) error {
	key := r.key(collection)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// List returns the names of stored collections, sorted.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	pattern := r.prefix + "snapshot:*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasSuffix(k, seqSuffix) {
			continue
		}
		names = append(names, strings.TrimPrefix(k, r.prefix+"snapshot:"))
	}
	sort.Strings(names)
	return names, nil
}

func (r *Repo) key(collection string) string {
	return r.prefix + "snapshot:" + collection
}
