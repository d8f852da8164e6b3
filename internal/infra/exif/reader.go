package exif

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"

	"lightcull/internal/domain"
)

type Reader struct{}

// Metadata projects the EXIF tags shown next to a photo. Missing tags stay empty.
func (Reader) Metadata(ctx context.Context, path string) (domain.ImageMetadata, error) {
	meta := domain.ImageMetadata{FileName: filepath.Base(path)}

	info, err := os.Stat(path)
	if err != nil {
		return meta, err
	}
	meta.FileSize = info.Size()

	x, err := decode(ctx, path)
	if err != nil {
		return meta, err
	}

	meta.CameraMake = stringTag(x, goexif.Make)
	meta.CameraModel = stringTag(x, goexif.Model)
	if focal, ok := ratTag(x, goexif.FocalLength); ok {
		meta.FocalLength = fmt.Sprintf("%s mm", trimFloat(focal))
	}
	if fnum, ok := ratTag(x, goexif.FNumber); ok {
		meta.Aperture = fmt.Sprintf("f/%.1f", fnum)
	}
	if exposure, ok := ratTagRaw(x, goexif.ExposureTime); ok {
		meta.ShutterSpeed = formatShutter(exposure)
	}
	if tag, err := x.Get(goexif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil {
			meta.ISO = fmt.Sprintf("%d", iso)
		}
	}
	if taken, err := dateTaken(x); err == nil {
		meta.DateTaken = taken
	}
	return meta, nil
}

// EmbeddedThumbnail returns the JPEG preview stored in the EXIF block, if the camera wrote one.
func (Reader) EmbeddedThumbnail(ctx context.Context, path string) ([]byte, error) {
	x, err := decode(ctx, path)
	if err != nil {
		return nil, err
	}
	return x.JpegThumbnail()
}

func decode(ctx context.Context, path string) (*goexif.Exif, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return goexif.Decode(file)
}

func dateTaken(x *goexif.Exif) (time.Time, error) {
	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			parsed, err := time.Parse("2006:01:02 15:04:05", str)
			if err == nil {
				return parsed, nil
			}
		}
	}

	if parsed, err := x.DateTime(); err == nil {
		return parsed, nil
	}

	return time.Time{}, errors.New("exif datetime not found")
}

func stringTag(x *goexif.Exif, name goexif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	str, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(str, "\x00"))
}

func ratTagRaw(x *goexif.Exif, name goexif.FieldName) (*big.Rat, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return nil, false
	}
	rat, err := tag.Rat(0)
	if err != nil || rat.Sign() <= 0 {
		return nil, false
	}
	return rat, true
}

func ratTag(x *goexif.Exif, name goexif.FieldName) (float64, bool) {
	rat, ok := ratTagRaw(x, name)
	if !ok {
		return 0, false
	}
	value, _ := rat.Float64()
	return value, true
}

func formatShutter(exposure *big.Rat) string {
	seconds, _ := exposure.Float64()
	if seconds >= 1 {
		return fmt.Sprintf("%s s", trimFloat(seconds))
	}
	return fmt.Sprintf("1/%.0f s", 1/seconds)
}

func trimFloat(value float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", value), "0"), ".")
}
