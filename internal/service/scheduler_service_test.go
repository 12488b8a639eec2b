package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-list/internal/logging"
)

func TestBuildDailySpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "08:00", want: "0 0 8 * * *"},
		{in: "23:59", want: "0 59 23 * * *"},
		{in: " 7:05 ", want: "0 5 7 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedulerService_ScheduleDaily(t *testing.T) {
	s := NewSchedulerService(time.UTC, logging.Discard())

	id, err := s.ScheduleDaily("08:30", func() {})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	next := s.Next(id)
	require.False(t, next.IsZero())
	assert.Equal(t, 8, next.Hour())
	assert.Equal(t, 30, next.Minute())

	_, err = s.ScheduleDaily("bogus", func() {})
	require.Error(t, err)
}
