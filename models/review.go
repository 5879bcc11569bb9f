package models

import (
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID            string    `json:"_id,omitempty"`
	ProductID     string    `json:"productId"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	UserAvatar    string    `json:"userAvatar"`
	Rating        int       `json:"rating"`
	Title         string    `json:"title"`
	Comment       string    `json:"comment"`
	Date          time.Time `json:"date"`
	HelpfulCount  int       `json:"helpful"`
	HelpfulVoters []string  `json:"helpfulVoters"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (r Review) Validate() error {
	if r.ProductID == "" || r.UserID == "" {
		return ErrMissingField
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Comment) == "" {
		return ErrMissingField
	}
	return nil
}

// VotedHelpful reports whether viewer already marked the review helpful.
func (r Review) VotedHelpful(viewer string) bool {
	for _, v := range r.HelpfulVoters {
		if v == viewer {
			return true
		}
	}
	return false
}
