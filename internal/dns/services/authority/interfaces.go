package authority

import (
	"context"

	"github.com/haukened/rr-authd/internal/dns/domain"
	"github.com/haukened/rr-authd/internal/dns/repos/zonetree"
)

// ZoneFinder selects the zone tree that encloses a query name.
// *zonetree.ZoneSet is the production implementation.
type ZoneFinder interface {
	Find(qname string) (*zonetree.Tree, bool)
}

// ResponseCache stores assembled responses keyed by question. Implementations
// must treat cached messages as templates: the responder rewrites the header
// ID and flags per query before sending.
type ResponseCache interface {
	Get(key string) (domain.Message, bool)
	Put(key string, msg domain.Message)
	Purge()
}

// Handler processes one decoded DNS query into a response. Transports decode
// and encode the wire form; the handler only sees domain messages.
type Handler interface {
	HandleQuery(ctx context.Context, query domain.Message) domain.Message
}
