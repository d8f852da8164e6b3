package domain

import "time"

// MoveOperation records one completed pair relocation so it can be reversed.
type MoveOperation struct {
	OriginalJPEGPath string    `json:"original_jpeg_path"`
	MovedJPEGPath    string    `json:"moved_jpeg_path"`
	OriginalRAWPath  string    `json:"original_raw_path,omitempty"`
	MovedRAWPath     string    `json:"moved_raw_path,omitempty"`
	Destination      string    `json:"destination"`
	Timestamp        time.Time `json:"timestamp"`
}

func (o MoveOperation) HasRAW() bool {
	return o.OriginalRAWPath != "" && o.MovedRAWPath != ""
}

// OriginalPair is the pair as it looked before the move.
func (o MoveOperation) OriginalPair() ImagePair {
	return ImagePair{JPEGPath: o.OriginalJPEGPath, RAWPath: o.OriginalRAWPath}
}
