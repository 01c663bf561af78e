package session

import (
	"regexp"
	"strings"

	"bookmarket/internal/storage"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// AttachmentURL derives the direct-download form of a stored file's URL.
// Cloudinary-hosted files need the fl_attachment flag spliced into the path;
// everything else downloads from its plain URL.
func AttachmentURL(ref storage.Ref) string {
	if strings.Contains(ref.URL, "cloudinary.com") {
		return strings.Replace(ref.URL, "/upload/", "/upload/fl_attachment/", 1)
	}
	return ref.URL
}

// DownloadName builds a safe local filename for a purchased book.
func DownloadName(title string, ref storage.Ref) string {
	format := ref.Format
	if format == "" {
		format = "pdf"
	}
	return unsafeNameChars.ReplaceAllString(title, "_") + "." + format
}
