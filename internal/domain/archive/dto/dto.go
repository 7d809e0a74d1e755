// Package dto contains data transfer objects for the archive domain
package dto

import "time"

// ForwardOrigin describes the chat an incoming message was forwarded from
type ForwardOrigin struct {
	ChatID      int64
	Title       string
	Description string
	Username    string
	MessageID   int
	Date        time.Time
}

// PhotoCandidate is one size variant of an incoming photo
type PhotoCandidate struct {
	FileID string
	Width  int
	Height int
	Size   int64
}

// VideoCandidate is an incoming video attachment
type VideoCandidate struct {
	FileID   string
	MimeType string
	Size     int64
}

// AddPostRequest represents one incoming message to archive
type AddPostRequest struct {
	UserID    int64
	MessageID int
	Date      time.Time
	Text      string
	Origin    *ForwardOrigin // nil when the message is not forwarded
	Photos    []PhotoCandidate
	Video     *VideoCandidate
}

// GenerateRequest selects the albums to render and package
type GenerateRequest struct {
	UserID int64
	All    bool
	Key    string
}

// GenerateResult reports a finished generation run
type GenerateResult struct {
	Count       int
	ArchivePath string
}

// AlbumInfo describes one stored album for listing
type AlbumInfo struct {
	Key       string
	Title     string
	PostCount int
	SizeMB    float64
}

// AlbumList describes all stored albums plus total disk usage
type AlbumList struct {
	Albums      []AlbumInfo
	TotalSizeMB float64
}
