package domain

// FolderStatistics is recomputed from disk on every request.
type FolderStatistics struct {
	TotalFiles     int
	JPEGWithRAW    int
	JPEGWithoutRAW int
	DeletedFiles   int
	TaggedPairs    int
}

func (s FolderStatistics) TotalPairs() int {
	return s.JPEGWithRAW + s.JPEGWithoutRAW
}
