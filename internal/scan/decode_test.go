package scan

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"vazio", nil, ""},
		{"ascii", []byte("Nmap scan report for localhost"), "Nmap scan report for localhost"},
		{"utf8 válido", []byte("Relatório ✓"), "Relatório ✓"},
		{"byte solto", []byte{'a', 0xff, 'b'}, "a�b"},
		{"continuação órfã", []byte{0x80}, "�"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.in))
		})
	}
}

func TestDecode_NeverInvalid(t *testing.T) {
	in := []byte{0xe2, 0x82, 'x', 0xf0, 0x9f, 0x98, 0xc0, 0xaf, 0xed, 0xa0, 0x80}
	out := Decode(in)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "�")
}

func TestFakeScanner(t *testing.T) {
	f := &FakeScanner{Output: "up", ErrStr: "warn"}
	res, err := f.Invoke(context.Background(), "host-a")
	require.NoError(t, err)
	assert.Equal(t, "up", res.Output)
	assert.Equal(t, "warn", res.Error)

	f.LaunchErr = "exec: \"nmap\": executable file not found in $PATH"
	_, err = f.Invoke(context.Background(), "host-b")
	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, f.LaunchErr, err.Error())

	assert.Equal(t, []string{"host-a", "host-b"}, f.Targets())
}
