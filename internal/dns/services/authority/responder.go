// Package authority turns zone lookups into complete DNS responses: answer
// assembly, wildcard owner rewriting, SOA authority records for negative
// answers, NS referrals with glue for delegations, and EDNS echo.
package authority

import (
	"context"

	"github.com/haukened/rr-authd/internal/dns/common/log"
	"github.com/haukened/rr-authd/internal/dns/common/rrdata"
	"github.com/haukened/rr-authd/internal/dns/domain"
	"github.com/haukened/rr-authd/internal/dns/repos/zonetree"
)

// Responder answers queries against the published zones.
type Responder struct {
	zones  ZoneFinder
	cache  ResponseCache
	logger log.Logger

	// maxUDPSize clamps the EDNS payload size advertised back to clients.
	maxUDPSize uint16
}

// ResponderOptions configures a Responder. Cache may be nil to disable
// response caching.
type ResponderOptions struct {
	Zones      ZoneFinder
	Cache      ResponseCache
	Logger     log.Logger
	MaxUDPSize uint16
}

// NewResponder wires a Responder from its collaborators.
func NewResponder(opts ResponderOptions) *Responder {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	maxSize := opts.MaxUDPSize
	if maxSize < domain.EDNSMinUDPSize {
		maxSize = domain.EDNSDefaultUDPSize
	}
	return &Responder{
		zones:      opts.Zones,
		cache:      opts.Cache,
		logger:     logger,
		maxUDPSize: maxSize,
	}
}

// HandleQuery processes one query message and returns the response message.
// It never returns an error: failures surface as response codes.
func (r *Responder) HandleQuery(ctx context.Context, query domain.Message) domain.Message {
	if err := ctx.Err(); err != nil {
		return r.finish(query, domain.NewResponse(query, domain.RCodeServerFailure))
	}
	if query.Header.Opcode != domain.OpcodeQuery {
		r.logger.Debug(map[string]any{
			"id":     query.Header.ID,
			"opcode": query.Header.Opcode.String(),
		}, "refusing unsupported opcode")
		return r.finish(query, domain.NewResponse(query, domain.RCodeNotImplemented))
	}
	if len(query.Questions) != 1 {
		return r.finish(query, domain.NewResponse(query, domain.RCodeFormatError))
	}
	q := query.Question()
	if q.Class != domain.RRClassIN && q.Class != domain.RRClassANY {
		return r.finish(query, domain.NewResponse(query, domain.RCodeRefused))
	}

	if r.cache != nil {
		if cached, ok := r.cache.Get(q.Key()); ok {
			return r.finish(query, r.fromTemplate(query, cached))
		}
	}

	tree, ok := r.zones.Find(q.Name)
	if !ok {
		// not our zone; an authoritative-only server never recurses
		return r.finish(query, domain.NewResponse(query, domain.RCodeRefused))
	}

	result, err := tree.Lookup(q.Name, q.Type)
	if err != nil {
		r.logger.Error(map[string]any{
			"qname": q.Name,
			"qtype": q.Type.String(),
			"zone":  tree.Apex(),
			"error": err.Error(),
		}, "zone lookup failed")
		return r.finish(query, domain.NewResponse(query, domain.RCodeServerFailure))
	}

	resp := r.assemble(query, tree, result)
	if r.cache != nil {
		r.cache.Put(q.Key(), resp)
	}
	return r.finish(query, resp)
}

// assemble builds the response sections for a lookup result.
func (r *Responder) assemble(query domain.Message, tree *zonetree.Tree, result zonetree.Result) domain.Message {
	switch result.Outcome {
	case zonetree.OutcomeMatch, zonetree.OutcomeWildcard:
		resp := domain.NewResponse(query, domain.RCodeNoError)
		resp.Header.Authoritative = true
		for _, rs := range result.Answers {
			resp.Answers = append(resp.Answers, rs.Records...)
		}
		return resp

	case zonetree.OutcomeNoData:
		resp := domain.NewResponse(query, domain.RCodeNoError)
		resp.Header.Authoritative = true
		r.appendSOA(&resp, tree)
		return resp

	case zonetree.OutcomeNameError:
		resp := domain.NewResponse(query, domain.RCodeNameError)
		resp.Header.Authoritative = true
		r.appendSOA(&resp, tree)
		return resp

	case zonetree.OutcomeDelegation:
		// referrals are never authoritative
		resp := domain.NewResponse(query, domain.RCodeNoError)
		if result.Delegation != nil {
			resp.Authority = append(resp.Authority, result.Delegation.Records...)
			resp.Additional = r.glue(tree, *result.Delegation)
		}
		return resp

	default:
		r.logger.Error(map[string]any{
			"qname":   query.Question().Name,
			"outcome": int(result.Outcome),
		}, "unknown lookup outcome")
		return domain.NewResponse(query, domain.RCodeServerFailure)
	}
}

// appendSOA places the zone's SOA in the authority section for negative
// answers (RFC 2308 §2).
func (r *Responder) appendSOA(resp *domain.Message, tree *zonetree.Tree) {
	if soa, ok := tree.SOA(); ok {
		resp.Authority = append(resp.Authority, soa.Records...)
	}
}

// glue collects A/AAAA records for referral NS targets that live inside this
// zone's tree (typically below the cut).
func (r *Responder) glue(tree *zonetree.Tree, ns domain.RRSet) []domain.ResourceRecord {
	var out []domain.ResourceRecord
	for _, rr := range ns.Records {
		target := nsTarget(rr)
		if target == "" {
			continue
		}
		for _, t := range []domain.RRType{domain.RRTypeA, domain.RRTypeAAAA} {
			if rs, ok := tree.FindRRSet(target, t); ok {
				out = append(out, rs.Records...)
			}
		}
	}
	return out
}

// nsTarget extracts the nameserver name an NS record points at.
func nsTarget(rr domain.ResourceRecord) string {
	if rr.Text != "" {
		return rr.Text
	}
	// wire-decoded records carry only RDATA
	target, err := rrdata.Decode(domain.RRTypeNS, rr.Data)
	if err != nil {
		return ""
	}
	return target
}

// fromTemplate adapts a cached response to the current query's header.
func (r *Responder) fromTemplate(query domain.Message, cached domain.Message) domain.Message {
	cached.Header.ID = query.Header.ID
	cached.Header.RecursionDesired = query.Header.RecursionDesired
	return cached
}

// finish applies the response-side EDNS echo: if the client sent an OPT
// record the response carries one too, advertising our clamped payload size.
func (r *Responder) finish(query domain.Message, resp domain.Message) domain.Message {
	if query.EDNS == nil {
		resp.EDNS = nil
		return resp
	}
	resp.EDNS = &domain.EDNS{
		UDPSize:  r.maxUDPSize,
		DNSSECOK: query.EDNS.DNSSECOK,
	}
	return resp
}

// ResponseSizeLimit picks the byte budget for encoding a response to this
// query over UDP: the client's advertised EDNS payload clamped to our
// configured maximum, or the classic 512-octet limit without EDNS.
func (r *Responder) ResponseSizeLimit(query domain.Message) int {
	if query.EDNS == nil {
		return domain.EDNSDefaultUDPSize
	}
	size := query.EDNS.PayloadSize()
	if size > int(r.maxUDPSize) {
		size = int(r.maxUDPSize)
	}
	return size
}
