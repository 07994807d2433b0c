// SPDX-License-Identifier: MPL-2.0

package plugin

import "strings"

const (
	CapabilityCore     Capability = "core"
	CapabilityTool     Capability = "tool"
	CapabilityImporter Capability = "importer"
	CapabilityUpload   Capability = "upload"
	CapabilityOther    Capability = "other"
)

// Capability is the help group a module is listed under.
type Capability string

// GroupOrder is the order help groups are printed in.
var GroupOrder = []Capability{
	CapabilityCore,
	CapabilityTool,
	CapabilityImporter,
	CapabilityUpload,
	CapabilityOther,
}

// Normalize lower-cases c and maps unknown values to CapabilityOther.
func (c Capability) Normalize() Capability {
	n := Capability(strings.ToLower(strings.TrimSpace(string(c))))
	switch n {
	case CapabilityCore, CapabilityTool, CapabilityImporter, CapabilityUpload:
		return n
	default:
		return CapabilityOther
	}
}

// Title is the group heading used in help output.
func (c Capability) Title() string {
	switch c.Normalize() {
	case CapabilityCore:
		return "Core"
	case CapabilityTool:
		return "Tools"
	case CapabilityImporter:
		return "Importers"
	case CapabilityUpload:
		return "Uploads"
	default:
		return "Other"
	}
}
