package filename

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxNameLength is the longest sanitized name we accept before falling back
// to a generated one. Matches common filesystem limits.
const maxNameLength = 255

var unsafeReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// Sanitize turns an arbitrary client-supplied filename into a safe display
// name: path separators, shell metacharacters and ".." sequences become
// underscores. An empty or oversized result is replaced with a generated
// fallback name.
func Sanitize(raw string) string {
	if raw == "" {
		return "unnamed_file"
	}

	sanitized := unsafeReplacer.Replace(raw)
	sanitized = strings.ReplaceAll(sanitized, "..", "_")
	sanitized = strings.TrimSpace(sanitized)

	if len(sanitized) == 0 || len(sanitized) > maxNameLength {
		return fmt.Sprintf("file_%d", time.Now().UnixMilli())
	}
	return sanitized
}

// DeriveStorageKey builds the on-disk name for a sanitized filename:
// millisecond timestamp, an 8-character random token and the base name with
// its extension preserved. The random token makes concurrent calls with the
// same name at the same millisecond yield distinct keys without coordination.
func DeriveStorageKey(safeName string) string {
	ext := filepath.Ext(safeName)
	base := strings.TrimSuffix(safeName, ext)
	token := uuid.New().String()[:8]
	return fmt.Sprintf("%d_%s_%s%s", time.Now().UnixMilli(), token, base, ext)
}
