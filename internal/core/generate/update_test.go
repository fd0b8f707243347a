// SPDX-License-Identifier: Apache-2.0

package generate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masonworks/mason/internal/core/generate"
)

const componentWithImports = `import Link from "next/link";

export default function Orders() {
  return <p>orders</p>;
}
`

func TestApplyComponentUpdateAddsImportAndFetch(t *testing.T) {
	res := generate.ApplyComponentUpdate(componentWithImports, "orders")

	assert.True(t, res.Anchored)
	assert.True(t, res.ImportAdded)
	assert.True(t, res.FetchAdded)
	assert.Contains(t, res.Content, `import { useEffect, useState } from "react";`)
	assert.Contains(t, res.Content, `fetch("/api/orders")`)
	// The fetch block lands inside the component body, after the entry line.
	entry := "export default function Orders() {"
	assert.Greater(t, strings.Index(res.Content, "useEffect(() =>"), strings.Index(res.Content, entry))
}

func TestApplyComponentUpdateKeepsExistingReactImport(t *testing.T) {
	content := `import { useState } from "react";

const Orders = () => {
  return <p>orders</p>;
};
`
	res := generate.ApplyComponentUpdate(content, "orders")

	assert.True(t, res.Anchored)
	assert.False(t, res.ImportAdded)
	assert.True(t, res.FetchAdded)
}

func TestApplyComponentUpdateIsIdempotent(t *testing.T) {
	first := generate.ApplyComponentUpdate(componentWithImports, "orders")
	second := generate.ApplyComponentUpdate(first.Content, "orders")

	assert.False(t, second.ImportAdded)
	assert.False(t, second.FetchAdded)
	assert.Equal(t, first.Content, second.Content)
}

func TestApplyComponentUpdateNoAnchor(t *testing.T) {
	content := "// just a placeholder file\n"
	res := generate.ApplyComponentUpdate(content, "orders")

	assert.False(t, res.Anchored)
	assert.Equal(t, content, res.Content)
}
