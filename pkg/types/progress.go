// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StageName identifies a pipeline stage.
type StageName string

// Pipeline stages in execution order.
const (
	StageTrendDiscovery StageName = "trend_discovery"
	StageContentWriter  StageName = "content_writer"
	StageSeoExaminer    StageName = "seo_examiner"
	StageConsolidator   StageName = "consolidator"
)

// Stages lists the pipeline stages in execution order.
var Stages = []StageName{
	StageTrendDiscovery,
	StageContentWriter,
	StageSeoExaminer,
	StageConsolidator,
}

// StageStatus is the state reported by a progress event.
type StageStatus string

const (
	StageStarted   StageStatus = "started"
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
)

// ProgressEvent reports a stage transition to the caller.
type ProgressEvent struct {
	Stage     StageName   `json:"stage" yaml:"stage"`
	Status    StageStatus `json:"status" yaml:"status"`
	ElapsedMs int64       `json:"elapsed_ms" yaml:"elapsed_ms"`

	// Err is set on failed events.
	Err error `json:"-" yaml:"-"`
}
