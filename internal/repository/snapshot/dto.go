package snapshot

import (
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/record"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// payload is the stored form of a snapshot, shared by every codec.
type payload struct {
	Collection string           `json:"collection" msgpack:"collection"`
	Revision   string           `json:"revision,omitempty" msgpack:"revision,omitempty"`
	Sequence   int64            `json:"sequence,omitempty" msgpack:"sequence,omitempty"`
	FetchedAt  time.Time        `json:"fetched_at" msgpack:"fetched_at"`
	Records    []map[string]any `json:"records" msgpack:"records"`
}

func toPayload(s *domsnap.Snapshot) payload {
	recs := make([]map[string]any, len(s.Records()))
	for i, r := range s.Records() {
		recs[i] = r
	}
	return payload{
		Collection: s.Collection(),
		Revision:   s.Revision(),
		Sequence:   s.Sequence(),
		FetchedAt:  s.FetchedAt(),
		Records:    recs,
	}
}

func (p *payload) toDomain() domsnap.Snapshot {
	recs := make([]record.Record, 0, len(p.Records))
	for _, r := range p.Records {
		if r != nil {
			recs = append(recs, record.Record(r))
		}
	}
	return domsnap.Reconstruct(p.Collection, p.Revision, p.Sequence, p.FetchedAt.UTC(), recs)
}
