package service

import (
	"context"
	"fmt"
	"time"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/system/domain"
	"github.com/reshetovitsme/global-chat-relay/internal/shared/embed"
	"github.com/samber/oops"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// Sampler reads host utilization
type Sampler interface {
	CPUPercent(ctx context.Context, window time.Duration) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
}

type gopsutilSampler struct{}

func (gopsutilSampler) CPUPercent(ctx context.Context, window time.Duration) (float64, error) {
	values, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, oops.Errorf("no cpu sample returned")
	}
	return values[0], nil
}

func (gopsutilSampler) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

// Service answers the host status command
type Service struct {
	sampler Sampler
	window  time.Duration
}

// New creates a host diagnostics service backed by gopsutil
func New() *Service {
	return NewWithSampler(gopsutilSampler{}, time.Second)
}

// NewWithSampler creates a host diagnostics service with a custom sampler
func NewWithSampler(sampler Sampler, window time.Duration) *Service {
	return &Service{sampler: sampler, window: window}
}

// Sample measures CPU over the sampling window and current memory usage
func (s *Service) Sample(ctx context.Context) (domain.HostStats, error) {
	cpuPercent, err := s.sampler.CPUPercent(ctx, s.window)
	if err != nil {
		return domain.HostStats{}, oops.In("system").With("context", "cpu sample").Wrap(err)
	}
	memPercent, err := s.sampler.MemoryPercent(ctx)
	if err != nil {
		return domain.HostStats{}, oops.In("system").With("context", "memory sample").Wrap(err)
	}
	return domain.HostStats{CPUPercent: cpuPercent, MemoryPercent: memPercent}, nil
}

// HostEmbed renders host stats for the private status reply
func HostEmbed(stats domain.HostStats) *embed.Embed {
	e := &embed.Embed{
		Title: "Server load",
		Color: embed.ColorInfo,
		Footer: &embed.Footer{
			Text: "Sampled at the time of the request.",
		},
	}
	return e.
		AddField("CPU usage", fmt.Sprintf("%.1f%%", stats.CPUPercent), false).
		AddField("Memory usage", fmt.Sprintf("%.1f%%", stats.MemoryPercent), false)
}
