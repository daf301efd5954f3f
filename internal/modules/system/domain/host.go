package domain

// HostStats is a point-in-time sample of host utilization
type HostStats struct {
	CPUPercent    float64
	MemoryPercent float64
}
