package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/system/domain"
	"github.com/stretchr/testify/require"
)

type fixedSampler struct {
	cpu, mem float64
	err      error
}

func (f fixedSampler) CPUPercent(ctx context.Context, window time.Duration) (float64, error) {
	return f.cpu, f.err
}

func (f fixedSampler) MemoryPercent(ctx context.Context) (float64, error) {
	return f.mem, nil
}

func TestSample(t *testing.T) {
	svc := NewWithSampler(fixedSampler{cpu: 12.5, mem: 40.34}, time.Millisecond)

	stats, err := svc.Sample(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.HostStats{CPUPercent: 12.5, MemoryPercent: 40.34}, stats)

	e := HostEmbed(stats)
	require.Equal(t, "12.5%", e.Fields[0].Value)
	require.Equal(t, "40.3%", e.Fields[1].Value)
}

func TestSampleError(t *testing.T) {
	svc := NewWithSampler(fixedSampler{err: errors.New("no procfs")}, time.Millisecond)

	_, err := svc.Sample(context.Background())
	require.Error(t, err)
}

func TestSampleHost(t *testing.T) {
	if testing.Short() {
		t.Skip("samples the real host")
	}
	svc := NewWithSampler(gopsutilSampler{}, 50*time.Millisecond)

	stats, err := svc.Sample(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, stats.MemoryPercent, 0.0)
	require.LessOrEqual(t, stats.MemoryPercent, 100.0)
}
