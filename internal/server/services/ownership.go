package services

import (
	"fmt"

	"github.com/dmitrijs2005/gopherblog/internal/common"
)

// Owned is implemented by resources that have a single author.
type Owned interface {
	OwnerID() string
}

// IsOwner reports whether actorID authored resource.
func IsOwner(resource Owned, actorID string) bool {
	return resource.OwnerID() == actorID
}

// requireOwner is the check every post and comment mutation runs before
// touching the row.
func requireOwner(resource Owned, actorID string) error {
	if !IsOwner(resource, actorID) {
		return fmt.Errorf("%w: actor %s does not own the resource", common.ErrorForbidden, actorID)
	}
	return nil
}
