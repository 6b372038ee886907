package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		fragments []Fragment
		want      string
	}{
		{"empty", nil, ""},
		{"single", []Fragment{{Index: 0, Text: "привет"}}, "привет"},
		{"ordered", []Fragment{{0, "a"}, {1, "b"}, {2, "c"}}, "a\nb\nc"},
		{"out of order input", []Fragment{{3, "d"}, {0, "a"}, {1, "b"}}, "a\nb\nd"},
		{"gaps are skipped", []Fragment{{0, "a"}, {1, "b"}, {3, "d"}}, "a\nb\nd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.fragments))
		})
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	in := []Fragment{{2, "c"}, {0, "a"}}
	Aggregate(in)
	assert.Equal(t, []Fragment{{2, "c"}, {0, "a"}}, in)
}
