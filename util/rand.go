package util

import (
	"strings"

	"github.com/google/uuid"
)

func GenID() string {
	return uuid.NewString()
}

// GenFilename builds a unique file name, e.g. "extracted-<uuid>.txt".
func GenFilename(prefix string, ext string) string {
	return prefix + "-" + GenID() + "." + strings.TrimPrefix(ext, ".")
}
