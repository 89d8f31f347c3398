// Package refcheck confirms that an entity referenced by id exists in a
// remote, independently-owned service.  The check is deliberately
// fail-closed: an unreachable dependency blocks writes instead of
// silently accepting references nobody can verify.
package refcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Entity kinds understood by the escola service's read endpoints.  The
// value doubles as the plural path segment of the lookup URL.
const (
	KindTurma     = "turmas"
	KindProfessor = "professores"
	KindAluno     = "alunos"
)

// Timeout bounds every existence lookup.  The call is a fresh
// synchronous round trip on each create/update; without a cap it would
// block the serialized store indefinitely.
const Timeout = 5 * time.Second

// Checker answers whether a referenced entity exists.  The second
// return value reports a transport-level failure: Exists(false, nil)
// means the owning service answered and denied the reference, while
// Exists(false, err) means the service could not be reached at all.
// Both outcomes block the write; callers that care can tell them apart.
type Checker interface {
	Exists(ctx context.Context, kind string, id int) (bool, error)
}

// HTTPChecker performs existence checks with a GET against
// <base>/api/v1/<kind>/<id>.  Only a 2xx response counts as existing.
// The consulted endpoints must serve fresh answers: the escola router
// exempts these by-id lookups from its response cache so a deleted
// record can never pass the check during a cache TTL window.
type HTTPChecker struct {
	base   string
	client *http.Client
}

// NewHTTPChecker builds a checker for the service at base, e.g.
// "http://app:5000".  The timeout applies to the whole round trip,
// including connection establishment and DNS.
func NewHTTPChecker(base string) *HTTPChecker {
	return &HTTPChecker{
		base:   base,
		client: &http.Client{Timeout: Timeout},
	}
}

// Exists implements Checker.  No retries, no caching: the original
// contract is one fresh lookup per write that touches the reference.
func (c *HTTPChecker) Exists(ctx context.Context, kind string, id int) (bool, error) {
	url := fmt.Sprintf("%s/api/v1/%s/%d", c.base, kind, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
