package interfaces

import (
	"time"

	"bond-market-maker/internal/types"
)

// FillJournal persists booked fills as daily JSON-lines files.
type FillJournal interface {
	Append(f types.Fill) error
	CompressOlder(retentionDays int) error
}

type EodSummarizer interface {
	SummarizeDay(t time.Time) (csvPath string, err error)
}
