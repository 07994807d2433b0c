// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"strconv"
	"testing"
)

// WriteManifest writes a minimal manifest module to path.
func WriteManifest(t testing.TB, path, typeName, doc, script string) {
	t.Helper()
	content := "type: " + strconv.Quote(typeName) + "\n" +
		"doc: " + strconv.Quote(doc) + "\n" +
		"script: " + strconv.Quote(script) + "\n"
	MustWriteFile(t, path, content)
}
