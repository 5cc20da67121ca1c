package eod

import (
	"bond-market-maker/internal/interfaces"
	"bond-market-maker/internal/tradelog"
)

func New(j *tradelog.Journal) interfaces.EodSummarizer {
	return &eodSummarizer{journal: j}
}
