package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDynamicJSON(t *testing.T) {
	type args struct {
		Task     string `json:"task"`
		Language string `json:"language,omitempty"`
	}

	t.Run("struct with tags", func(t *testing.T) {
		m, err := ToDynamicJSON(args{Task: "sort a slice", Language: "Go"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"task": "sort a slice", "language": "Go"}, m)
	})

	t.Run("omitempty drops zero values", func(t *testing.T) {
		m, err := ToDynamicJSON(args{Task: "sort a slice"})
		require.NoError(t, err)
		_, ok := m["language"]
		assert.False(t, ok)
	})

	t.Run("unmarshalable value", func(t *testing.T) {
		_, err := ToDynamicJSON(func() {})
		assert.Error(t, err)
	})
}
