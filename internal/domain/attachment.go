package domain

type FileAttachment struct {
	Id         AttachmentId
	Filename   string
	UploadDate int64  // epoch millis
	FileType   string // sniffed MIME type, "unknown" when undetected
	HoaxId     *HoaxId
}

// Associated reports whether the attachment is already bound to a hoax.
// Association is immutable once set.
func (a *FileAttachment) Associated() bool {
	return a.HoaxId != nil
}

type AttachmentView struct {
	Filename string `json:"filename"`
	FileType string `json:"fileType"`
}
