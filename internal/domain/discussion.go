package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SectionType string

const (
	SectionText SectionType = "text"
	SectionFile SectionType = "file"
)

// Section is one block of a post body.
type Section struct {
	Type     SectionType `json:"type"`
	Content  string      `json:"content,omitempty"`
	FileURL  string      `json:"fileUrl,omitempty"`
	FileType string      `json:"fileType,omitempty"`
}

func ValidateSections(sections []Section) error {
	for _, s := range sections {
		switch s.Type {
		case SectionText:
		case SectionFile:
			if strings.TrimSpace(s.FileURL) == "" {
				return Invalid("sections.fileUrl", "is required for file sections")
			}
		default:
			return Invalid("sections.type", "must be text or file")
		}
	}
	return nil
}

type Discussion struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string                      `gorm:"not null" json:"title"`
	AuthorID  uuid.UUID                   `gorm:"type:uuid;index" json:"authorId"`
	Sections  datatypes.JSONSlice[Section] `json:"sections"`
	CreatedAt time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`

	Author   *CommentAuthor `gorm:"-" json:"author,omitempty"`
	Likes    []uuid.UUID    `gorm:"-" json:"likes"`
	Dislikes []uuid.UUID    `gorm:"-" json:"dislikes"`
}
