package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "Printer on 3rd floor", want: "Printer on 3rd floor"},
		{name: "ampersand kept", input: "R&D laptop", want: "R&D laptop"},
		{name: "script removed", input: "hello<script>alert(1)</script>", want: "hello"},
		{name: "tags removed", input: "<b>urgent</b> fix", want: "urgent fix"},
		{name: "trimmed", input: "  spaced  ", want: "spaced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.StripTags(tt.input))
		})
	}
}

func TestToHTMLSanitized(t *testing.T) {
	svc := NewService()

	out, err := svc.ToHTMLSanitized("**Ticket CSC202503140001** was closed\n<script>x()</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Ticket CSC202503140001</strong>")
	assert.NotContains(t, out, "<script>")
}
