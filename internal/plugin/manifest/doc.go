// SPDX-License-Identifier: MPL-2.0

// Package manifest loads modules described by CUE manifests, the format of
// community and private modules:
//
//	type:       "Hello"
//	doc: """
//		Greets the configured server
//
//		Short Help:
//		Say hello
//		"""
//	capability: "tool"
//	flags: [{name: "greeting", short: "g", kind: "string", default: "hi"}]
//	script: "echo $REPTOR_FLAG_GREETING $REPTOR_SERVER"
//
// The script runs in the embedded shell interpreter with REPTOR_SERVER,
// REPTOR_PROJECT_ID, REPTOR_TOKEN, REPTOR_INSECURE, REPTOR_NOTENAME and one
// REPTOR_FLAG_<NAME> variable per declared flag. Positional arguments become
// $1..$n and a non-zero exit status becomes the process exit code.
package manifest
