package util

import (
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// HumanSize formats a byte count the way the reports show it ("1.2 MiB").
func HumanSize(n uint64) string {
	return humanize.IBytes(n)
}

// OutputName derives an output path from an input one:
// OutputName("dir/cat.jpg", "steg_", "png") is "dir/steg_cat.png".
func OutputName(input, prefix, ext string) string {
	dir, file := filepath.Split(input)
	base := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(dir, prefix+base+"."+strings.TrimPrefix(ext, "."))
}
