package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in       string
		want     Selection
		posts    bool
		comments bool
	}{
		{"", SelectBoth, true, true},
		{"both", SelectBoth, true, true},
		{"Post", SelectPosts, true, false},
		{"posts", SelectPosts, true, false},
		{"COMMENT", SelectComments, false, true},
		{" comments ", SelectComments, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelection(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.posts, got.Posts())
			assert.Equal(t, tt.comments, got.Comments())
		})
	}
}

func TestParseSelectionRejectsUnknown(t *testing.T) {
	_, err := ParseSelection("links")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "links")
}

func TestItemTypeJSON(t *testing.T) {
	b, err := json.Marshal(UnifiedItem{ID: "t1_a", Type: ItemComment})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"Comment"`)
	assert.Equal(t, "Post", ItemPost.String())
}
