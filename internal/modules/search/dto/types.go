package dto

type MatchOutput struct {
	Snippet  string
	Position int
	Start    int
	End      int
}

type ChapterResultOutput struct {
	ChapterIndex int
	ChapterTitle string
	Matches      []MatchOutput
}
