package rover

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		out  []byte
		err  bool
	}{
		{"literal", []string{"1221"}, []byte("1221"), false},
		{"multiple", []string{"1", "3"}, []byte("13"), false},
		{"numeric", []string{"#0x33", "#0"}, []byte{'3', 0}, false},
		{"hash only", []string{"#"}, []byte("#"), false},
		{"overflow", []string{"#256"}, nil, true},
		{"invalid", []string{"#x"}, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ParseBytes(tc.args)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.out, out)
		})
	}
}
