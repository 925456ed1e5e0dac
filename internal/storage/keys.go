package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Object key helpers for the excel-files bucket.

var unsafeKeyChars = regexp.MustCompile(`[\s/\\]+`)

// ObjectKey builds the blob key for an uploaded file: millisecond upload
// timestamp plus the sanitized original filename. The timestamp keeps keys
// unique across concurrent submissions of identically named files.
func ObjectKey(filename string, now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), unsafeKeyChars.ReplaceAllString(filename, "_"))
}

// BlobName extracts the object key from a public blob URL by taking the
// last path segment. This only works because ObjectKey never contains a
// slash; rows created since the blob_key column exists should use the
// stored key and treat this as a legacy fallback.
func BlobName(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// ContentTypeFor returns the MIME type for a spreadsheet filename.
func ContentTypeFor(filename string) string {
	if strings.HasSuffix(filename, ".xlsx") {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if strings.HasSuffix(filename, ".xls") {
		return "application/vnd.ms-excel"
	}
	return "application/octet-stream"
}
