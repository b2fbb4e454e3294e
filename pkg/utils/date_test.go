package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "date only",
			input: "05/03/2024",
			want:  time.Date(2024, time.March, 5, 0, 0, 0, 0, VNTimeLocation()),
		},
		{
			name:  "date with time",
			input: "05/03/2024 09:30:00",
			want:  time.Date(2024, time.March, 5, 9, 30, 0, 0, VNTimeLocation()),
		},
		{
			name:  "end of year",
			input: "31/12/2023 23:59:59",
			want:  time.Date(2023, time.December, 31, 23, 59, 59, 0, VNTimeLocation()),
		},
		{
			name:  "rfc3339 fallback",
			input: "2024-03-05T09:30:00Z",
			want:  time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "not a date",
			input:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "month out of range",
			input:   "05/13/2024",
			wantErr: true,
		},
		{
			name:    "missing time fields",
			input:   "05/03/2024 09:30",
			wantErr: true,
		},
		{
			name:    "non numeric parts",
			input:   "aa/bb/cccc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSourceDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}
