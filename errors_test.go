package jeotrans_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/GEOINT/jeotrans"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	_, err := jeotrans.DefaultUTMConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(-85, 0), 0)
	require.Error(t, err)

	var de *jeotrans.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, jeotrans.BoundLatitude, de.Bound)
	assert.Contains(t, err.Error(), "latitude: ")

	wrapped := fmt.Errorf("line 3: %w", err)
	assert.ErrorIs(t, wrapped, jeotrans.ErrLatitude)
	assert.NotErrorIs(t, wrapped, jeotrans.ErrLongitude)

	assert.Equal(t, "precision out of range", jeotrans.ErrPrecision.Error())
	assert.Equal(t, "MGRS string", jeotrans.BoundMGRSString.String())
	assert.Equal(t, "Bound(99)", jeotrans.Bound(99).String())
}
