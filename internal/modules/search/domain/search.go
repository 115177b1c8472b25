package domain

import (
	"regexp"
	"unicode/utf8"
)

const (
	// maxMatchesPerChapter bounds the scan of pathological queries, like a
	// single common letter in a very long chapter.
	maxMatchesPerChapter = 100
	// contextRadius is how many characters of context are kept on each
	// side of a match, clipped at text boundaries.
	contextRadius = 50
)

// Chapter is a parsed document chapter as handed over by the parser.
// Content is the raw HTML fragment; search strips it before scanning.
type Chapter struct {
	Index   int
	Title   string
	Content string
}

// Match locates one occurrence. Position is the byte offset of the match
// in the chapter's plain text; Start and End are byte offsets within
// Snippet, so Snippet[Start:End] is exactly the matched text.
type Match struct {
	Snippet  string
	Position int
	Start    int
	End      int
}

type ChapterResult struct {
	ChapterIndex int
	ChapterTitle string
	Matches      []Match
}

// ScanChapter finds up to maxMatchesPerChapter occurrences of re in the
// chapter's plain text and wraps each in a context snippet.
func ScanChapter(re *regexp.Regexp, chapterIndex int, chapterTitle, plain string) ChapterResult {
	result := ChapterResult{ChapterIndex: chapterIndex, ChapterTitle: chapterTitle}
	for _, loc := range re.FindAllStringIndex(plain, maxMatchesPerChapter) {
		snipStart := stepBack(plain, loc[0], contextRadius)
		snipEnd := stepForward(plain, loc[1], contextRadius)
		result.Matches = append(result.Matches, Match{
			Snippet:  plain[snipStart:snipEnd],
			Position: loc[0],
			Start:    loc[0] - snipStart,
			End:      loc[1] - snipStart,
		})
	}
	return result
}

func stepBack(s string, from, runes int) int {
	for i := 0; i < runes && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:from])
		from -= size
	}
	return from
}

func stepForward(s string, from, runes int) int {
	for i := 0; i < runes && from < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[from:])
		from += size
	}
	return from
}
