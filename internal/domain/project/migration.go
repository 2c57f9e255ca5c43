package project

// MergeStats counts the per-folder outcome of a duplicate merge.
type MergeStats struct {
	Copied   int `json:"copied"`
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

// MergedFolder describes one secondary folder merged into the primary.
type MergedFolder struct {
	From string `json:"from"`
	MergeStats
}

// RenamedFolder records a secondary folder retired to a legacy name.
type RenamedFolder struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MigrationDetail describes the resolution of one duplicated identifier.
type MigrationDetail struct {
	ProjectID string          `json:"projectId"`
	Primary   string          `json:"primary"`
	Merged    []MergedFolder  `json:"merged"`
	Renamed   []RenamedFolder `json:"renamed"`
}

// MigrationReport summarizes a duplicate-directory migration run.
// Nothing is ever deleted; FoldersRenamed counts directories retired to
// a _legacy name.
type MigrationReport struct {
	ProjectsScanned int               `json:"projectsScanned"`
	DuplicatesFound int               `json:"duplicatesFound"`
	FoldersRenamed  int               `json:"foldersRenamed"`
	FilesCopied     int               `json:"filesCopied"`
	FilesReplaced   int               `json:"filesReplaced"`
	FilesSkipped    int               `json:"filesSkipped"`
	Details         []MigrationDetail `json:"details,omitempty"`
}
