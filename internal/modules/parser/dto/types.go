package dto

type ChapterOutput struct {
	Index   int
	Title   string
	Content string
}

type PluginOutput struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Formats []string
}

type DoctorOutput struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}
