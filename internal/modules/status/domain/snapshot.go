package domain

import "time"

// Snapshot is the aggregate state rendered into the status message
type Snapshot struct {
	RegisteredChannels int
	Running            bool
	UpdatedAt          time.Time
}
