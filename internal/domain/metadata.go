package domain

import "time"

// ImageMetadata is a read-only EXIF projection of a JPEG. Empty strings mean the tag was absent.
type ImageMetadata struct {
	FileName     string
	FileSize     int64
	CameraMake   string
	CameraModel  string
	FocalLength  string
	Aperture     string
	ShutterSpeed string
	ISO          string
	DateTaken    time.Time
}
