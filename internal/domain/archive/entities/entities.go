// Package entities contains domain entities for the album archive
package entities

import "time"

// DateLayout is the wire format for post timestamps in the archive document
const DateLayout = "2006-01-02 15:04:05 UTC"

// DefaultAlbumKey is the album key for posts forwarded without an identifiable origin chat
const DefaultAlbumKey = "(default)"

// DefaultAlbumTitle is the title for the default album
const DefaultAlbumTitle = "Default album"

// MediaKind identifies the kind of a stored media file
type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

// UserArchive is the per-user archive document
type UserArchive struct {
	Channels []*Channel `json:"channels"`
}

// Channel represents one album: a collection of posts from a single forwarding origin
type Channel struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Username    string  `json:"username"`
	Posts       []*Post `json:"posts"`
}

// Post represents one archived unit of content
type Post struct {
	ID          int      `json:"id"`
	Date        string   `json:"date"`
	ForwardDate string   `json:"forward_date"`
	Text        string   `json:"text"`
	Photos      []string `json:"photos"`
	Videos      []string `json:"videos"`
}

// NewPost creates a post with empty media lists
func NewPost(id int, date, forwardDate time.Time, text string) *Post {
	return &Post{
		ID:          id,
		Date:        FormatDate(date),
		ForwardDate: FormatDate(forwardDate),
		Text:        text,
		Photos:      []string{},
		Videos:      []string{},
	}
}

// ChannelByID returns the channel with the given origin chat id, or nil
func (a *UserArchive) ChannelByID(id int64) *Channel {
	for _, ch := range a.Channels {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// ChannelByKey returns the channel with the given album key, or nil
func (a *UserArchive) ChannelByKey(key string) *Channel {
	for _, ch := range a.Channels {
		if ch.Username == key {
			return ch
		}
	}
	return nil
}

// RemoveChannel removes the channel with the given album key.
// It reports whether a channel was removed.
func (a *UserArchive) RemoveChannel(key string) bool {
	for i, ch := range a.Channels {
		if ch.Username == key {
			a.Channels = append(a.Channels[:i], a.Channels[i+1:]...)
			return true
		}
	}
	return false
}

// HasPost reports whether the channel already contains a post with the given id
func (c *Channel) HasPost(id int) bool {
	for _, post := range c.Posts {
		if post.ID == id {
			return true
		}
	}
	return false
}

// FormatDate renders a timestamp in the archive wire format
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a timestamp in the archive wire format
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
