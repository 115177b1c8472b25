package htmltext

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Strip reduces an HTML fragment to its visible text: tags removed, entities
// resolved, script/style contents dropped. Whitespace is preserved as written
// so match offsets computed against the result stay stable.
func Strip(fragment string) (string, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var sb strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			err := tokenizer.Err()
			if errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return "", err
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isInvisible(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isInvisible(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}
}

func isInvisible(tag string) bool {
	return tag == "script" || tag == "style"
}
