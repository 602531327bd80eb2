package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare", "1.0.0", "v1.0.0", false},
		{"prefixed", "v1.2.3", "v1.2.3", false},
		{"short", "1.2", "v1.2.0", false},
		{"padded", " 1.0.0 ", "v1.0.0", false},
		{"empty", "", "", true},
		{"garbage", "latest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		minimum string
		compat  bool
		wantErr error
	}{
		{"same", "1.0.0", "", true, nil},
		{"newer minor", "1.4.0", "1.0.0", true, nil},
		{"older", "0.9.0", "1.0.0", false, ErrTooOld},
		{"newer major", "2.0.0", "1.0.0", false, ErrNewerMajor},
		{"prerelease below minimum", "1.0.0-rc.1", "1.0.0", false, ErrTooOld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Check(CheckInput{ServerVersion: tt.server, Minimum: tt.minimum})
			require.NoError(t, err)
			assert.Equal(t, tt.compat, res.Compatible)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.Err, tt.wantErr)
			} else {
				assert.NoError(t, res.Err)
			}
		})
	}
}

func TestCheckInvalidServerVersion(t *testing.T) {
	_, err := Check(CheckInput{ServerVersion: "dev"})
	require.ErrorIs(t, err, ErrInvalidVersion)
}
