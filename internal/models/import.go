package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportOutcomeKind classifies what happened to one imported record
type ImportOutcomeKind string

const (
	ImportCreated ImportOutcomeKind = "CREATED"
	ImportSkipped ImportOutcomeKind = "SKIPPED"
	ImportFailed  ImportOutcomeKind = "FAILED"
)

// ImportOutcome is the result for a single external catalog record
type ImportOutcome struct {
	Index     int               `json:"index"`
	Title     string            `json:"title"`
	Kind      ImportOutcomeKind `json:"kind"`
	Reason    string            `json:"reason,omitempty"`
	ProductID uint              `json:"productId,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// ImportResult aggregates the outcomes of an import run
type ImportResult struct {
	TotalRows    int             `json:"totalRows"`
	CreatedCount int             `json:"createdCount"`
	SkippedCount int             `json:"skippedCount"`
	FailedCount  int             `json:"failedCount"`
	Outcomes     []ImportOutcome `json:"outcomes,omitempty"`
}

// Summarize aggregates per-record outcomes into counts
func Summarize(outcomes []ImportOutcome) ImportResult {
	result := ImportResult{
		TotalRows: len(outcomes),
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		switch o.Kind {
		case ImportCreated:
			result.CreatedCount++
		case ImportSkipped:
			result.SkippedCount++
		case ImportFailed:
			result.FailedCount++
		}
	}
	return result
}

// ImportRun is the persisted audit record of one import job execution
type ImportRun struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Source       string         `json:"source" gorm:"size:500;not null"`
	StartedAt    time.Time      `json:"startedAt" gorm:"not null"`
	FinishedAt   time.Time      `json:"finishedAt" gorm:"not null"`
	TotalRows    int            `json:"totalRows"`
	CreatedCount int            `json:"createdCount"`
	SkippedCount int            `json:"skippedCount"`
	FailedCount  int            `json:"failedCount"`
	Outcomes     datatypes.JSON `json:"outcomes" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"createdAt"`
}
