package storage

import (
	"time"

	"github.com/talentsift/talentsift/internal/screening"
)

// Resume is the persisted form of a screened resume.
type Resume struct {
	ID              string    `json:"resume_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Category        string    `json:"category"`
	ExperienceYears float64   `json:"experience_years"`
	Skills          []string  `json:"skills"`
	RawText         string    `json:"-"`
	DriveID         string    `json:"drive_id,omitempty"`
	ItemID          string    `json:"item_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// FromRecord flattens a candidate record into its persisted form. Only the
// first email and phone are stored.
func FromRecord(record *screening.CandidateRecord, driveID, itemID string) *Resume {
	resume := &Resume{
		ID:              record.ID,
		Name:            record.Name,
		Category:        record.Category,
		ExperienceYears: record.ExperienceYears,
		Skills:          record.Skills,
		RawText:         record.Text,
		DriveID:         driveID,
		ItemID:          itemID,
	}

	if len(record.Emails) > 0 {
		resume.Email = record.Emails[0]
	}
	if len(record.Phones) > 0 {
		resume.Phone = record.Phones[0]
	}

	return resume
}
