package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		c := NewReaderConfirmer(strings.NewReader(tt.input), &out)

		got, err := c.Confirm(context.Background(), "Продолжить?")

		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Продолжить? (y/N): ", out.String())
	}
}

func TestReaderConfirmer_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReaderConfirmer(r, io.Discard).Confirm(ctx, "?")

	assert.ErrorIs(t, err, ErrConfirmation)
}
