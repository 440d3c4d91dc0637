package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"batepapo/internal/pkg/sanitize"
)

func TestStrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "alice", "alice"},
		{"tags removed", "<b>alice</b>", "alice"},
		{"script removed entirely", "<script>alert(1)</script>", ""},
		{"nested markup", "<div><i>hi</i> there</div>", "hi there"},
		{"whitespace trimmed", "  bob  ", "bob"},
		{"entities decoded", "a &amp; b", "a & b"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, sanitize.Strip(tc.in))
		})
	}
}
