package auth

import "github.com/sakif/blog-api/internal/model"

// Policy decides whether a principal may modify a resource owned by ownerID.
// Services call it after they have established that the resource exists.
type Policy interface {
	CanMutate(principal *model.User, ownerID string) bool
}

// OwnerPolicy allows a mutation only when the principal is the owner.
// There are no roles and no staff override.
type OwnerPolicy struct{}

var _ Policy = OwnerPolicy{}

func (OwnerPolicy) CanMutate(principal *model.User, ownerID string) bool {
	return principal != nil && principal.ID != "" && principal.ID == ownerID
}
