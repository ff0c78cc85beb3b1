package upload

import (
	"sync"

	"github.com/moyoez/zipconsole/types"
)

func candidates(names ...string) []types.Candidate {
	out := make([]types.Candidate, 0, len(names))
	for _, n := range names {
		out = append(out, types.Candidate{Name: n, Size: int64(len(n)), Source: BytesSource(n)})
	}
	return out
}

type notifySink struct {
	mu   sync.Mutex
	list []*types.Notification
}

func (s *notifySink) add(n *types.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, n)
}

func (s *notifySink) ofType(kind string) []*types.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.Notification
	for _, n := range s.list {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}
