package research

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose prefix", `Here is the result: {"a": 1}`, `{"a": 1}`},
		{"prose suffix", `{"a": 1} Hope that helps!`, `{"a": 1}`},
		{"array", "```json\n[1, 2, 3]\n```", `[1, 2, 3]`},
		{"array before object", `[{"a": 1}]`, `[{"a": 1}]`},
		{"nested braces kept", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}

func TestDecodeList(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}

	t.Run("bare array", func(t *testing.T) {
		items, err := decodeList[item](json.RawMessage(`[{"name": "a"}, {"name": "b"}]`), "items")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("wrapped under first key", func(t *testing.T) {
		items, err := decodeList[item](json.RawMessage(`{"items": [{"name": "a"}]}`), "items", "list")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "a", items[0].Name)
	})

	t.Run("wrapped under fallback key", func(t *testing.T) {
		items, err := decodeList[item](json.RawMessage(`{"list": [{"name": "a"}]}`), "items", "list")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("key order wins", func(t *testing.T) {
		raw := json.RawMessage(`{"items": [{"name": "first"}], "list": [{"name": "second"}]}`)
		items, err := decodeList[item](raw, "items", "list")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "first", items[0].Name)
	})

	t.Run("singleton object", func(t *testing.T) {
		items, err := decodeList[item](json.RawMessage(`{"name": "only"}`), "items")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "only", items[0].Name)
	})

	t.Run("singleton under key", func(t *testing.T) {
		items, err := decodeList[item](json.RawMessage(`{"items": {"name": "only"}}`), "items")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "only", items[0].Name)
	})

	t.Run("empty input", func(t *testing.T) {
		items, err := decodeList[item](json.RawMessage(``), "items")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := decodeList[item](json.RawMessage(`[{"name":`), "items")
		assert.Error(t, err)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
