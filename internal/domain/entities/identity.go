package entities

import "github.com/google/uuid"

// CallerIdentity is the verified identity every boundary call carries.
// Session issuance and verification are a collaborator concern; by the time
// a call reaches a usecase the identity is trusted.
type CallerIdentity struct {
	UserID      uuid.UUID
	DisplayName string
}
