package provider

import "github.com/google/uuid"

// Principal identifies the caller on every operation. It is supplied by the
// identity middleware and never stored by this subsystem.
type Principal struct {
	ID   uuid.UUID
	Role string
}

// RoleManager has full access to every file and capability.
const RoleManager = "manager"

// Capability is a single access right checked against a file.
type Capability string

const (
	CapabilityView     Capability = "view"
	CapabilityDownload Capability = "download"
	CapabilityEdit     Capability = "edit"
	CapabilityDelete   Capability = "delete"
)
