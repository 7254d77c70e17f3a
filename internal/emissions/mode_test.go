package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TransportMode
		wantErr bool
	}{
		{name: "canonical mode", input: "cycling", want: ModeCycling},
		{name: "carpool", input: "carpool", want: ModeCarpool},
		{name: "work from home", input: "work_from_home", want: ModeWorkFromHome},
		{name: "legacy car alias", input: "car", want: ModeCarSolo},
		{name: "legacy bicycle alias", input: "bicycle", want: ModeCycling},
		{name: "legacy public transport alias", input: "public_transport", want: ModeBus},
		{name: "legacy shared taxi alias", input: "shared_taxi", want: ModeCarpool},
		{name: "unknown mode", input: "hoverboard", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "case sensitive", input: "Cycling", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeClassification(t *testing.T) {
	assert.True(t, ModeCarpool.SharedOccupancy())
	assert.False(t, ModeBus.SharedOccupancy(), "public transport is per passenger-km already")
	assert.False(t, ModeTwoWheelerPillion.SharedOccupancy(), "pillion factor is tabulated per person")

	assert.True(t, ModeWalking.ZeroEmission())
	assert.True(t, ModeCycling.ZeroEmission())
	assert.False(t, ModeEBike.ZeroEmission(), "grid charging emissions")
}

func TestModesIsClosed(t *testing.T) {
	modes := Modes()
	require.NotEmpty(t, modes)

	// Every enumerated mode round-trips through ParseMode.
	for _, mode := range modes {
		parsed, err := ParseMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	// The returned slice is a copy, not the enumeration itself.
	modes[0] = "mutated"
	fresh := Modes()
	assert.NotEqual(t, TransportMode("mutated"), fresh[0])
}
