package domain

// OutputFormat selects how a CloneResponse is rendered, narrowed to the
// formats CloneOutputFormatter actually implements.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatHTML OutputFormat = "html"
)

// SortCriteria selects the ordering of a CloneResponse's pairs, independent
// of CloneSortCriteria's string-keyed variant used by config files.
type SortCriteria string

const (
	SortBySimilarity SortCriteria = "similarity"
	SortByLocation   SortCriteria = "location"
	SortBySize       SortCriteria = "size"
	SortByType       SortCriteria = "type"
)
