package image

import (
	"fmt"
	"time"

	times "gopkg.in/djherbis/times.v1"
)

// FileTimes reports host-level timestamps for the backing image file
// itself (diskfile.bin). Files inside the image carry no timestamps, so
// this is the only time metadata an image has.
type FileTimes struct {
	ModTime    time.Time
	AccessTime time.Time
	ChangeTime time.Time
	BirthTime  time.Time // zero if the platform cannot report it
}

// StatImageFile reads host timestamps for the image file at path.
func StatImageFile(path string) (FileTimes, error) {
	t, err := times.Stat(path)
	if err != nil {
		return FileTimes{}, fmt.Errorf("stat image file %s: %w", path, err)
	}
	ft := FileTimes{
		ModTime:    t.ModTime(),
		AccessTime: t.AccessTime(),
	}
	if t.HasChangeTime() {
		ft.ChangeTime = t.ChangeTime()
	}
	if t.HasBirthTime() {
		ft.BirthTime = t.BirthTime()
	}
	return ft, nil
}
