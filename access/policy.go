package access

import (
	"errors"
	"fmt"
)

// Principal identifies a caller at a resource boundary.
type Principal string

const (
	PrincipalClipWorker Principal = "clip-worker"
	PrincipalProducer   Principal = "producer"
	PrincipalOperator   Principal = "operator"
)

// Resource identifies a guarded resource. Resources are logical: physical
// names (table names, bucket) come from configuration.
type Resource string

const (
	ResourceGames        Resource = "games-table"
	ResourceClips        Resource = "clips-table"
	ResourcePlayers      Resource = "players-table"
	ResourceDrafts       Resource = "drafts-table"
	ResourceStats        Resource = "stats-table"
	ResourceRawUploads   Resource = "uploads/raw"
	ResourceDerivedClips Resource = "uploads/clips"
	ResourceTrimQueue    Resource = "trim-queue"
	ResourceDeadLetters  Resource = "trim-dlq"
)

// Operation is one element of an operation set granted on a resource.
type Operation string

const (
	OpRead    Operation = "read"
	OpWrite   Operation = "write"
	OpEnqueue Operation = "enqueue"
	OpConsume Operation = "consume"
)

// ErrAccessDenied is returned when a principal calls an operation outside
// its granted set. The callers have no privilege-check branches of their
// own; denial surfaces as an ordinary boundary failure.
var ErrAccessDenied = errors.New("access denied")

// Policy is a static table of (principal, resource, operation-set) grants.
type Policy struct {
	grants map[Principal]map[Resource]map[Operation]bool
}

// NewPolicy returns an empty policy with no grants.
func NewPolicy() *Policy {
	return &Policy{grants: make(map[Principal]map[Resource]map[Operation]bool)}
}

// Grant adds operations on a resource to a principal's set.
func (p *Policy) Grant(principal Principal, resource Resource, ops ...Operation) *Policy {
	byResource, ok := p.grants[principal]
	if !ok {
		byResource = make(map[Resource]map[Operation]bool)
		p.grants[principal] = byResource
	}
	opSet, ok := byResource[resource]
	if !ok {
		opSet = make(map[Operation]bool)
		byResource[resource] = opSet
	}
	for _, op := range ops {
		opSet[op] = true
	}
	return p
}

// Authorize checks a single operation against the grant table.
func (p *Policy) Authorize(principal Principal, resource Resource, op Operation) error {
	if p.grants[principal][resource][op] {
		return nil
	}
	return fmt.Errorf("%w: %s may not %s %s", ErrAccessDenied, principal, op, resource)
}

// DefaultPolicy is the grant table for the clip pipeline. Each principal
// gets exactly the operation set it needs.
func DefaultPolicy() *Policy {
	p := NewPolicy()

	// The worker trims clips: it reads raw uploads, writes derived clips,
	// resolves game titles, and upserts clip records.
	p.Grant(PrincipalClipWorker, ResourceTrimQueue, OpConsume)
	p.Grant(PrincipalClipWorker, ResourceRawUploads, OpRead)
	p.Grant(PrincipalClipWorker, ResourceDerivedClips, OpRead, OpWrite)
	p.Grant(PrincipalClipWorker, ResourceGames, OpRead)
	p.Grant(PrincipalClipWorker, ResourceClips, OpRead, OpWrite)

	// Producers upload raw footage and request trims; nothing else.
	p.Grant(PrincipalProducer, ResourceRawUploads, OpWrite)
	p.Grant(PrincipalProducer, ResourceTrimQueue, OpEnqueue)

	// Operators own the reporting read paths, the record write paths that
	// sit outside the worker, and dead-letter inspection and redrive.
	p.Grant(PrincipalOperator, ResourceGames, OpRead, OpWrite)
	p.Grant(PrincipalOperator, ResourceClips, OpRead)
	p.Grant(PrincipalOperator, ResourcePlayers, OpRead, OpWrite)
	p.Grant(PrincipalOperator, ResourceDrafts, OpRead, OpWrite)
	p.Grant(PrincipalOperator, ResourceStats, OpRead, OpWrite)
	p.Grant(PrincipalOperator, ResourceRawUploads, OpRead)
	p.Grant(PrincipalOperator, ResourceDerivedClips, OpRead)
	p.Grant(PrincipalOperator, ResourceDeadLetters, OpRead, OpWrite)
	p.Grant(PrincipalOperator, ResourceTrimQueue, OpEnqueue)

	return p
}
