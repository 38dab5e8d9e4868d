// Package tests holds contract suites for port implementations.
package tests

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NodeLoaderContractTest checks a ports.NodeLoader against the nodes it was
// seeded with (id to node JSON). Nodes are compared decoded, so key order and
// omitted empty fields do not matter.
func NodeLoaderContractTest(t *testing.T, loader ports.NodeLoader, setupData map[string][]byte) {
	t.Helper()

	t.Run("GetNode_Success", func(t *testing.T) {
		for id, raw := range setupData {
			got, err := loader.GetNode(id)
			require.NoError(t, err, "node %s", id)

			var want, have domain.ChatNode
			require.NoError(t, json.Unmarshal(raw, &want))
			require.NoError(t, json.Unmarshal(got, &have), "node %s is not ChatNode JSON", id)
			assert.Equal(t, want, have, "node %s", id)
		}
	})

	t.Run("GetNode_NotFound", func(t *testing.T) {
		_, err := loader.GetNode("non-existent-node")
		assert.Error(t, err)
	})

	t.Run("ListNodes", func(t *testing.T) {
		ids, err := loader.ListNodes()
		require.NoError(t, err)

		want := make([]string, 0, len(setupData))
		for id := range setupData {
			want = append(want, id)
		}
		assert.ElementsMatch(t, want, ids)
	})
}
