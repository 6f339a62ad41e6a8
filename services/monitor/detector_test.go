package monitor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectorNotifiesOnFirstBody(t *testing.T) {
	d := &Detector{}
	require.True(t, d.ShouldNotify("<p>shifts</p>", 2))
}

func TestDetectorSuppressesRepeatedBody(t *testing.T) {
	d := &Detector{}
	require.True(t, d.ShouldNotify("<p>shifts</p>", 2))
	require.False(t, d.ShouldNotify("<p>shifts</p>", 2))
	require.False(t, d.ShouldNotify("<p>shifts</p>", 2))
}

func TestDetectorNotifiesOnChangedBody(t *testing.T) {
	d := &Detector{}
	require.True(t, d.ShouldNotify("<p>one</p>", 1))
	require.True(t, d.ShouldNotify("<p>two</p>", 2))
}

func TestDetectorZeroCountNeverNotifies(t *testing.T) {
	d := &Detector{}
	require.False(t, d.ShouldNotify("", 0))
	require.False(t, d.ShouldNotify("<p>anything</p>", 0))
}

func TestDetectorZeroCountClearsSnapshot(t *testing.T) {
	d := &Detector{}
	require.True(t, d.ShouldNotify("<p>shifts</p>", 2))

	// a drought resets dedup state even though nothing is sent
	require.False(t, d.ShouldNotify("", 0))

	// the same body as two cycles ago fires again after the drought
	require.True(t, d.ShouldNotify("<p>shifts</p>", 2))
}

func TestDetectorReset(t *testing.T) {
	d := &Detector{}
	require.True(t, d.ShouldNotify("<p>shifts</p>", 2))
	d.Reset()
	require.True(t, d.ShouldNotify("<p>shifts</p>", 2))
}
