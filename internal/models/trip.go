package models

import "time"

// TripMeta is the one-time category selection collected before planning
// starts: who the member travelled with, for how long, and in what style.
// Each field holds filter tag ids from the fixed tag catalog. Immutable once
// set except through the explicit re-selection flow.
type TripMeta struct {
	CompanionTagID int `json:"companion_tag_id"`
	DurationTagID  int `json:"duration_tag_id"`
	StyleTagID     int `json:"style_tag_id"`
}

// TagIDs flattens the meta into the id list the submission payload carries.
func (m TripMeta) TagIDs() []int {
	return []int{m.CompanionTagID, m.DurationTagID, m.StyleTagID}
}

// TripStop is one stop of a persisted trip: the place identity and
// coordinates merged with whatever the member wrote about it.
type TripStop struct {
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Coordinates Coordinates `json:"coordinates"`
	ExternalID  string      `json:"external_id"`
	FileIDs     []string    `json:"file_ids"`
}

// Trip is a published travel journal post.
type Trip struct {
	ID            int        `json:"id"`
	MemberID      string     `json:"member_id"`
	Title         string     `json:"title"`
	TagIDs        []int      `json:"tag_ids"`
	Stops         []TripStop `json:"stops"`
	LikeCount     int        `json:"like_count"`
	BookmarkCount int        `json:"bookmark_count"`
	CommentCount  int        `json:"comment_count"`
	Liked         bool       `json:"liked"`
	Bookmarked    bool       `json:"bookmarked"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TripPayload is the submission body for both create and update.
type TripPayload struct {
	Title  string     `json:"title" validate:"required,min=1,max=100"`
	TagIDs []int      `json:"tag_ids" validate:"required,min=1"`
	Stops  []TripStop `json:"stops" validate:"required,min=1,max=10,dive"`
}

// TripSummary is the list-view projection of a trip.
type TripSummary struct {
	ID            int       `json:"id"`
	MemberID      string    `json:"member_id"`
	Title         string    `json:"title"`
	TagIDs        []int     `json:"tag_ids"`
	StopCount     int       `json:"stop_count"`
	LikeCount     int       `json:"like_count"`
	CommentCount  int       `json:"comment_count"`
	CoverFileID   string    `json:"cover_file_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Comment is a member comment on a trip.
type Comment struct {
	ID        int       `json:"id"`
	TripID    int       `json:"trip_id"`
	MemberID  string    `json:"member_id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest is the body for posting a comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
