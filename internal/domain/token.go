package domain

type Token struct {
	Token      string
	UserId     UserId
	LastUsedAt int64 // epoch millis, refreshed on successful auth
}
