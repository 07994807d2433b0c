// SPDX-License-Identifier: MPL-2.0

// Command reptor is a pluggable reporting command-line client.
package main

import cmd "github.com/reptor/reptor/cmd/reptor"

func main() {
	cmd.Execute()
}
