package types

import "fmt"

// FileDescriptor is one entry of a project's remote file listing.
// Produced by the archive listing API and consumed by the selector and
// the downloader; never mutated after decode.
type FileDescriptor struct {
	Name        string `json:"fileName"`
	MediaType   string `json:"fileType"`
	Size        Bytes  `json:"fileSizeBytes"`
	DownloadURL string `json:"downloadLink"`
}

func (f FileDescriptor) String() string {
	return fmt.Sprintf("%s (%s)", f.Name, f.Size)
}
