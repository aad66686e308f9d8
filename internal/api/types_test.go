package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentExtraction(t *testing.T) {
	r := &ChatReply{ConversationID: "c1"}
	r.Response.Data.Choices = []EnvelopeChoice{{Message: EnvelopeMessage{Content: "  hello  "}}}

	content, ok := r.Content()
	assert.True(t, ok)
	assert.Equal(t, "hello", content, "content is trimmed")
}

func TestContentMissingLayers(t *testing.T) {
	cases := map[string]*ChatReply{
		"nil reply":     nil,
		"no choices":    {ConversationID: "c1"},
		"blank content": func() *ChatReply {
			r := &ChatReply{}
			r.Response.Data.Choices = []EnvelopeChoice{{Message: EnvelopeMessage{Content: "   "}}}
			return r
		}(),
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			content, ok := r.Content()
			assert.False(t, ok)
			assert.Empty(t, content)
		})
	}
}
