package domain

import "time"

// Poll option count bounds, enforced on create and on every update that
// touches the option list.
const (
	MinPollOptions = 2
	MaxPollOptions = 10
)

// Poll represents a community poll
type Poll struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Options            []string   `json:"options"`
	AllowMultipleVotes bool       `json:"allow_multiple_votes"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	IsActive           bool       `json:"is_active"`
	CreatedBy          int64      `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsVotable reports whether the poll accepts votes at the given instant
func (p *Poll) IsVotable(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	return true
}

// CreatePollRequest represents a poll creation request
type CreatePollRequest struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Options            []string   `json:"options"`
	AllowMultipleVotes bool       `json:"allow_multiple_votes"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

// UpdatePollRequest represents a partial poll update. Nil fields are left
// unchanged.
type UpdatePollRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Options            []string   `json:"options"`
	AllowMultipleVotes *bool      `json:"allow_multiple_votes"`
	ExpiresAt          *time.Time `json:"expires_at"`
	IsActive           *bool      `json:"is_active"`
}

// Vote represents one resident's selection on a poll. There is exactly one
// row per (poll, resident); resubmission overwrites the selection in place.
type Vote struct {
	PollID          int64     `json:"poll_id"`
	UserID          int64     `json:"user_id"`
	SelectedOptions []int     `json:"selected_options"`
	CreatedAt       time.Time `json:"created_at"`
}

// VoteRequest represents a vote submission request
type VoteRequest struct {
	SelectedOptions []int `json:"selected_options"`
}

// WinningOption describes the leading option of a tally
type WinningOption struct {
	Index      int     `json:"index"`
	Text       string  `json:"text"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// PollTally is the computed vote breakdown for a poll, recomputed on every
// read rather than stored.
type PollTally struct {
	OptionVotes []int          `json:"option_votes"`
	TotalVotes  int            `json:"total_votes"`
	Winner      *WinningOption `json:"winner,omitempty"`
	IsTied      bool           `json:"is_tied"`
	TiedIndices []int          `json:"tied_indices,omitempty"`
}

// PollWithTally pairs a poll with its current tally for list/read responses
type PollWithTally struct {
	Poll  Poll      `json:"poll"`
	Tally PollTally `json:"tally"`
}

// PollFilter narrows poll list reads
type PollFilter struct {
	ActiveOnly     bool
	IncludeExpired bool
}
