package domain

type Hoax struct {
	Id        HoaxId
	Content   string
	Timestamp int64 // epoch millis
	UserId    UserId
}

// HoaxView is the listing representation. FileAttachment is omitted from the
// JSON entirely when the hoax has none.
type HoaxView struct {
	Id             HoaxId          `json:"id"`
	Content        string          `json:"content"`
	Timestamp      int64           `json:"timestamp"`
	User           UserView        `json:"user"`
	FileAttachment *AttachmentView `json:"fileAttachment,omitempty"`
}
