package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "VIC", NormalizeTicker(" vic "))
	assert.Equal(t, "FPT", NormalizeTicker("FPT"))
	assert.Equal(t, "", NormalizeTicker("   "))
}

func TestChunkSlice(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		size  int
		want  [][]string
	}{
		{
			name:  "even split",
			items: []string{"a", "b", "c", "d"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "last chunk smaller",
			items: []string{"a", "b", "c", "d", "e"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		},
		{
			name:  "size zero keeps everything together",
			items: []string{"a", "b", "c"},
			size:  0,
			want:  [][]string{{"a", "b", "c"}},
		},
		{
			name:  "size larger than input",
			items: []string{"a"},
			size:  10,
			want:  [][]string{{"a"}},
		},
		{
			name:  "empty input",
			items: nil,
			size:  3,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkSlice(tt.items, tt.size))
		})
	}
}
