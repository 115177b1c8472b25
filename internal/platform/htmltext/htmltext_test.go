package htmltext_test

import (
	"testing"

	"leaflog/internal/platform/htmltext"
)

func TestStrip(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text passes through", "the quick brown fox", "the quick brown fox"},
		{"tags removed", "<p>the <em>quick</em> brown fox</p>", "the quick brown fox"},
		{"entities resolved", "Tom &amp; Jerry &lt;3", "Tom & Jerry <3"},
		{"script dropped", "<p>before</p><script>var x = 1;</script><p>after</p>", "beforeafter"},
		{"style dropped", "<style>p { color: red }</style>visible", "visible"},
		{"nested markup", "<div><h1>Title</h1><p>body &quot;text&quot;</p></div>", "Titlebody \"text\""},
		{"empty input", "", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := htmltext.Strip(tc.in)
			if err != nil {
				t.Fatalf("strip: %v", err)
			}
			if got != tc.want {
				t.Fatalf("strip %q: got %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
