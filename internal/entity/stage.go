package entity

// Stage is a step of the thumbnail generation pipeline.
type Stage string

const (
	StageReceived         Stage = "received"
	StageFetchingOriginal Stage = "fetching_original"
	StageDecoding         Stage = "decoding"
	StageResizing         Stage = "resizing"
	StageStoringThumbnail Stage = "storing_thumbnail"
	StageLinking          Stage = "linking"
	StageAcknowledged     Stage = "acknowledged"
	StageFailed           Stage = "failed"
)
