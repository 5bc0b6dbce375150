package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
	MaxTagLength     = 50
	MaxTags          = 10

	CopySuffix = " (Copy)"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Categories lists the accepted note categories in display order.
var Categories = []string{"Sermons", "Prayer", "Bible Study", "General", "Ministry", "Personal"}

// categoryTypes maps each category to the note types allowed under it.
var categoryTypes = map[string][]string{
	"Sermons":     {"sermon", "outline", "illustration"},
	"Prayer":      {"prayer", "request", "praise"},
	"Bible Study": {"study", "devotional", "commentary"},
	"General":     {"general", "idea", "reminder"},
	"Ministry":    {"ministry", "meeting", "event"},
	"Personal":    {"personal", "journal", "goal"},
}

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type Note struct {
	ID         string
	Title      string
	Content    string
	Category   string
	Type       string
	Tags       []string
	Priority   string
	IsArchived bool
	IsFavorite bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Duplicate returns a copy of n without identity or timestamps. The title
// gets CopySuffix, shortening the original when the result would exceed
// MaxTitleLength.
func (n *Note) Duplicate() *Note {
	title := []rune(n.Title)
	suffix := []rune(CopySuffix)
	if len(title)+len(suffix) > MaxTitleLength {
		title = title[:MaxTitleLength-len(suffix)]
	}

	tags := make([]string, len(n.Tags))
	copy(tags, n.Tags)

	return &Note{
		Title:      string(title) + CopySuffix,
		Content:    n.Content,
		Category:   n.Category,
		Type:       n.Type,
		Tags:       tags,
		Priority:   n.Priority,
		IsArchived: n.IsArchived,
		IsFavorite: n.IsFavorite,
	}
}

// HasTag reports whether the note carries tag (tags are stored lower-cased).
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func IsCategory(c string) bool {
	_, ok := categoryTypes[c]
	return ok
}

// TypesFor returns the note types allowed under category.
func TypesFor(category string) []string {
	return categoryTypes[category]
}

// IsType reports whether t is a known note type in any category.
func IsType(t string) bool {
	for _, types := range categoryTypes {
		for _, known := range types {
			if known == t {
				return true
			}
		}
	}
	return false
}

func TypeMatchesCategory(category, t string) bool {
	for _, known := range categoryTypes[category] {
		if known == t {
			return true
		}
	}
	return false
}

func IsPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// NewID returns a fresh storage identifier (24 hex characters).
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed storage identifier.
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
