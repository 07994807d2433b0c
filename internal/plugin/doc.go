// SPDX-License-Identifier: MPL-2.0

// Package plugin defines the contract between the reptor core and its
// modules.
//
// A module is described to the core by a Loader: a type name, a documentation
// block, a help group, a callback that declares its command-line flags, and a
// constructor. Compiled modules register a Registration with DefaultRegistry
// from an init function:
//
//	func init() {
//		plugin.Register(plugin.Registration{
//			Type:        "Conf",
//			Docs:        docs,
//			Group:       plugin.CapabilityCore,
//			Flags:       addFlags,
//			Constructor: newModule,
//		})
//	}
//
// Discovery turns every loader into a Descriptor, the parsed and validated
// view used for help output and dispatch. The dispatcher constructs the chosen
// module with an Env and runs it once.
package plugin
