package domain

const (
	// TopTag marks a keeper. Compared case-sensitively.
	TopTag = "TOP"

	// RAWExtension is the only RAW format used for pairing.
	RAWExtension = "RAF"

	DeleteFolder  = "_toDelete"
	ArchiveFolder = "_Archive"
	OuttakeFolder = "_Outtakes"

	ThumbnailSize    = 200
	ThumbnailQuality = 80

	CacheRootName    = "LightCull"
	CacheCurrentName = "current"
)

// DestinationFolders lists the folders a pair can be moved into.
var DestinationFolders = []string{DeleteFolder, ArchiveFolder, OuttakeFolder}

func IsDestinationFolder(name string) bool {
	for _, folder := range DestinationFolders {
		if folder == name {
			return true
		}
	}
	return false
}
