package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongDesc(t *testing.T) {
	t.Parallel()

	assert.Empty(t, LongDesc(""))
	assert.Equal(t, "Detects proxies.\n\tMore.", LongDesc("\n\t\tDetects proxies.\n\tMore.\n\n"))
}

func TestExamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give string
		want string
	}{
		{name: "empty", give: "", want: ""},
		{name: "whitespace only", give: " \n\t", want: ""},
		{
			name: "reindents every line",
			give: `
				# resolve a proxy
				proxy-inspector resolve --address 0x1234
			`,
			want: "  # resolve a proxy\n  proxy-inspector resolve --address 0x1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Examples(tt.give))
		})
	}
}
