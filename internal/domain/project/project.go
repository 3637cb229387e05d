package project

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidID = errors.New("invalid project id format")
	ErrNotFound  = errors.New("project not found")
)

// Project is the only persisted entity. ID and the timestamps are owned by
// the store.
type Project struct {
	ID           primitive.ObjectID `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Technologies []string           `json:"technologies"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Input is a full payload for creating a project.
type Input struct {
	Title        string
	Description  string
	Technologies []string
}

// Patch carries the fields of a partial update. Nil means "leave unchanged".
type Patch struct {
	Title        *string
	Description  *string
	Technologies *[]string
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Technologies == nil
}

// Apply returns a copy of proj with the patch fields written over it.
func (p Patch) Apply(proj Project) Project {
	if p.Title != nil {
		proj.Title = *p.Title
	}
	if p.Description != nil {
		proj.Description = *p.Description
	}
	if p.Technologies != nil {
		proj.Technologies = append([]string(nil), (*p.Technologies)...)
	}
	return proj
}

// ParseID checks that raw is a 24 character hex ObjectID.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// Page is one page of a List result.
type Page struct {
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Projects []Project `json:"projects"`
}
