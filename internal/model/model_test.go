package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanParentSpanID(t *testing.T) {
	parent := NewSpanID(1)
	follows := NewSpanID(2)
	span := Span{
		References: []Reference{
			{RefType: FollowsFrom, SpanID: follows},
			{RefType: ChildOf, SpanID: parent},
		},
	}

	got, ok := span.ParentSpanID()
	assert.True(t, ok)
	assert.Equal(t, parent, got)
}

func TestSpanParentSpanIDRootSpan(t *testing.T) {
	span := Span{References: []Reference{{RefType: FollowsFrom, SpanID: NewSpanID(2)}}}

	_, ok := span.ParentSpanID()
	assert.False(t, ok)
}

func TestRefTypeString(t *testing.T) {
	assert.Equal(t, "CHILD_OF", ChildOf.String())
	assert.Equal(t, "FOLLOWS_FROM", FollowsFrom.String())
}
