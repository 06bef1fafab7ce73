package domain

type (
	UserId       = int64
	HoaxId       = int64
	AttachmentId = int64
)
