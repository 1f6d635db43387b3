package controller

import "context"

// WorkspaceAuthorizer is the seam to the access-control layer: it decides
// whether the caller may read a workspace's metrics before the aggregation
// pipeline runs. The aggregation layer itself trusts the decision.
type WorkspaceAuthorizer interface {
	Authorize(ctx context.Context, workspaceID string) error
}

type allowAllAuthorizer struct{}

// NewAllowAllAuthorizer returns the default authorizer used when access
// control is enforced upstream (gateway or identity provider).
func NewAllowAllAuthorizer() WorkspaceAuthorizer {
	return allowAllAuthorizer{}
}

func (allowAllAuthorizer) Authorize(context.Context, string) error {
	return nil
}
