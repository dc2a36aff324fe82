package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateBookingBodyValidate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"valid window", now.Add(time.Hour), now.Add(2 * time.Hour), nil},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), errInvalidTimeRange},
		{"zero-length window", now.Add(time.Hour), now.Add(time.Hour), errInvalidTimeRange},
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour), errTimeInPast},
		{"whole window in the past", now.Add(-2 * time.Hour), now.Add(-time.Hour), errTimeInPast},
		{"start exactly now", now, now.Add(time.Hour), errTimeInPast},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := CreateBookingBody{ItemID: 1, StartTime: tc.start, EndTime: tc.end}
			err := body.Validate(now)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
