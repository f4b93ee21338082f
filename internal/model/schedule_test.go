package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in   string
		want []time.Weekday
	}{
		{"mon-fri", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}},
		{"Sat, sunday", []time.Weekday{time.Saturday, time.Sunday}},
		{"fri-mon", []time.Weekday{time.Friday, time.Saturday, time.Sunday, time.Monday}},
		{"mon,mon-tue", []time.Weekday{time.Monday, time.Tuesday}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekdays(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"mon-xyz", "", " , "} {
		_, err := ParseWeekdays(bad)
		assert.Error(t, err, bad)
	}
}

func TestScheduleWindow_HasWeekday(t *testing.T) {
	w := ScheduleWindow{Weekdays: []time.Weekday{time.Monday, time.Friday}}
	assert.True(t, w.HasWeekday(time.Friday))
	assert.False(t, w.HasWeekday(time.Sunday))
}
