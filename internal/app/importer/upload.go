package importer

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile is returned for uploads that are not delimited text.
var ErrUnsupportedFile = errors.New("The file must be a file of type: csv, txt.")

var allowedExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

var allowedMediaTypes = map[string]bool{
	"text/csv":                    true,
	"text/plain":                  true,
	"application/csv":             true,
	"text/comma-separated-values": true,
	"application/vnd.ms-excel":    true,
	"application/octet-stream":    true,
}

// CheckUpload accepts a file by extension and, when the client sent one, by
// media type. Generic binary media types are only accepted alongside a csv or
// txt extension.
func CheckUpload(filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return ErrUnsupportedFile
	}

	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !allowedMediaTypes[strings.ToLower(mediaType)] {
		return ErrUnsupportedFile
	}
	return nil
}
