// SPDX-License-Identifier: MPL-2.0

// Package cmd builds the reptor command tree from the discovered modules and
// dispatches one invocation.
//
// The root command carries the global flags as persistent flags, so they are
// accepted before or after the module name. Each discovered module becomes a
// subcommand whose local flags come from its AddArguments callback. Before a
// module runs, the parsed flags are folded into the configuration store and
// the store is sealed.
package cmd
