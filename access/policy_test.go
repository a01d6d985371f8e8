package access

import (
	"errors"
	"testing"
)

func TestAuthorizeGrantedAndDenied(t *testing.T) {
	p := NewPolicy().Grant(PrincipalProducer, ResourceTrimQueue, OpEnqueue)

	if err := p.Authorize(PrincipalProducer, ResourceTrimQueue, OpEnqueue); err != nil {
		t.Errorf("granted operation denied: %v", err)
	}
	if err := p.Authorize(PrincipalProducer, ResourceTrimQueue, OpConsume); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("ungranted operation allowed, err %v", err)
	}
	if err := p.Authorize(PrincipalClipWorker, ResourceTrimQueue, OpEnqueue); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("unknown principal allowed, err %v", err)
	}
	if err := p.Authorize(PrincipalProducer, ResourceClips, OpEnqueue); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("unknown resource allowed, err %v", err)
	}
}

func TestDefaultPolicyGrants(t *testing.T) {
	p := DefaultPolicy()

	allowed := []struct {
		principal Principal
		resource  Resource
		op        Operation
	}{
		{PrincipalClipWorker, ResourceTrimQueue, OpConsume},
		{PrincipalClipWorker, ResourceRawUploads, OpRead},
		{PrincipalClipWorker, ResourceDerivedClips, OpWrite},
		{PrincipalClipWorker, ResourceGames, OpRead},
		{PrincipalClipWorker, ResourceClips, OpWrite},
		{PrincipalProducer, ResourceRawUploads, OpWrite},
		{PrincipalProducer, ResourceTrimQueue, OpEnqueue},
		{PrincipalOperator, ResourceDeadLetters, OpWrite},
		{PrincipalOperator, ResourceTrimQueue, OpEnqueue},
		{PrincipalOperator, ResourceStats, OpWrite},
	}
	for _, c := range allowed {
		if err := p.Authorize(c.principal, c.resource, c.op); err != nil {
			t.Errorf("%s should %s %s: %v", c.principal, c.op, c.resource, err)
		}
	}

	denied := []struct {
		principal Principal
		resource  Resource
		op        Operation
	}{
		// The worker never writes raw uploads, record tables it does not
		// own, or the queue's producer side.
		{PrincipalClipWorker, ResourceRawUploads, OpWrite},
		{PrincipalClipWorker, ResourceGames, OpWrite},
		{PrincipalClipWorker, ResourcePlayers, OpRead},
		{PrincipalClipWorker, ResourceTrimQueue, OpEnqueue},
		{PrincipalClipWorker, ResourceDeadLetters, OpRead},
		// Producers cannot read anything or touch the consumer side.
		{PrincipalProducer, ResourceRawUploads, OpRead},
		{PrincipalProducer, ResourceTrimQueue, OpConsume},
		{PrincipalProducer, ResourceClips, OpRead},
		// Operators never consume the queue or write clip records.
		{PrincipalOperator, ResourceTrimQueue, OpConsume},
		{PrincipalOperator, ResourceClips, OpWrite},
		{PrincipalOperator, ResourceDerivedClips, OpWrite},
	}
	for _, c := range denied {
		if err := p.Authorize(c.principal, c.resource, c.op); !errors.Is(err, ErrAccessDenied) {
			t.Errorf("%s should not %s %s, err %v", c.principal, c.op, c.resource, err)
		}
	}
}
