package sizetable

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
)

// Entry maps a target identifier to a square pixel size and a destination path.
// Path is relative to the base output directory unless it is absolute.
type Entry struct {
	ID   string
	Size int
	Path string
}

// Table is an ordered list of entries. Entries are independent of each other.
type Table []Entry

// Resolve returns the destination of the entry below baseDir.
func (e Entry) Resolve(baseDir string) string {
	if filepath.IsAbs(e.Path) || baseDir == "" {
		return filepath.Clean(e.Path)
	}
	return filepath.Join(baseDir, e.Path)
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (%dx%d) -> %s", e.ID, e.Size, e.Size, e.Path)
}

// Preset names understood by ForPreset
const (
	PresetAndroidMipmap = "android-mipmap"
	PresetIOSAppIconSet = "ios-appiconset"
	PresetSized         = "sized"
	PresetCustom        = "custom"
)

// DefaultAndroidFileName is the launcher icon file written into each density folder
const DefaultAndroidFileName = "ic_launcher.png"

type density struct {
	folder string
	size   int
}

var androidDensities = []density{
	{"mipmap-mdpi", 48},
	{"mipmap-hdpi", 72},
	{"mipmap-xhdpi", 96},
	{"mipmap-xxhdpi", 144},
	{"mipmap-xxxhdpi", 192},
}

// AndroidMipmap returns one entry per density folder, each holding fileName.
// An empty fileName falls back to DefaultAndroidFileName.
func AndroidMipmap(fileName string) Table {
	if fileName == "" {
		fileName = DefaultAndroidFileName
	}
	table := make(Table, 0, len(androidDensities))
	for _, d := range androidDensities {
		table = append(table, Entry{
			ID:   d.folder,
			Size: d.size,
			Path: filepath.Join(d.folder, fileName),
		})
	}
	return table
}

type iosSlot struct {
	points float64
	scales []int
}

var iosSlots = []iosSlot{
	{20, []int{1, 2, 3}},
	{29, []int{1, 2, 3}},
	{40, []int{1, 2, 3}},
	{60, []int{2, 3}},
	{76, []int{1, 2}},
	{83.5, []int{2}},
	{1024, []int{1}},
}

// IOSAppIconSet returns the slots of an AppIcon.appiconset folder named
// Icon-App-<W>x<H>@<scale>x.png.
func IOSAppIconSet() Table {
	var table Table
	for _, slot := range iosSlots {
		pt := strconv.FormatFloat(slot.points, 'f', -1, 64)
		for _, scale := range slot.scales {
			name := fmt.Sprintf("Icon-App-%sx%s@%dx.png", pt, pt, scale)
			table = append(table, Entry{
				ID:   name,
				Size: int(math.Round(slot.points * float64(scale))),
				Path: name,
			})
		}
	}
	return table
}

var sizedLabels = []struct {
	size  int
	label string
}{
	{48, "mdpi"},
	{72, "hdpi"},
	{96, "xhdpi"},
	{144, "xxhdpi"},
	{192, "xxxhdpi"},
	{20, "20pt"},
	{29, "29pt"},
	{40, "40pt"},
	{58, "58pt"},
	{60, "60pt"},
	{76, "76pt"},
	{80, "80pt"},
	{87, "87pt"},
	{120, "120pt"},
	{152, "152pt"},
	{167, "167pt"},
	{180, "180pt"},
	{1024, "1024pt"},
	{512, "512px"},
	{256, "256px"},
	{128, "128px"},
	{64, "64px"},
	{32, "32px"},
	{16, "16px"},
}

// MainIconSize is the size of the app_icon.png written by the sized preset
const MainIconSize = 512

// SizedAssets returns app_icon_<N>x<N>.png for every platform size plus the
// main app_icon.png.
func SizedAssets() Table {
	table := make(Table, 0, len(sizedLabels)+1)
	for _, s := range sizedLabels {
		table = append(table, Entry{
			ID:   s.label,
			Size: s.size,
			Path: SizedFileName(s.size),
		})
	}
	table = append(table, Entry{ID: "main", Size: MainIconSize, Path: "app_icon.png"})
	return table
}

// SizedFileName returns the app_icon_<N>x<N>.png name used by the sized preset.
func SizedFileName(size int) string {
	return fmt.Sprintf("app_icon_%dx%d.png", size, size)
}

// ForPreset builds the table of a named preset. fileName only applies to the
// Android preset.
func ForPreset(preset, fileName string) (Table, error) {
	switch preset {
	case PresetAndroidMipmap:
		return AndroidMipmap(fileName), nil
	case PresetIOSAppIconSet:
		return IOSAppIconSet(), nil
	case PresetSized:
		return SizedAssets(), nil
	default:
		return nil, fmt.Errorf("unknown size table preset: %s", preset)
	}
}

// Dedupe drops entries whose path was already claimed by an earlier entry.
// Two entries writing the same file would race when processed in parallel.
func (t Table) Dedupe() Table {
	seen := make(map[string]bool, len(t))
	out := make(Table, 0, len(t))
	for _, e := range t {
		key := filepath.Clean(e.Path)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
