package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	t.Run("identical points are zero distance", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineKm(48.8566, 2.3522, 48.8566, 2.3522))
	})

	t.Run("symmetry", func(t *testing.T) {
		a := HaversineKm(48.8566, 2.3522, 51.5074, -0.1278)
		b := HaversineKm(51.5074, -0.1278, 48.8566, 2.3522)
		assert.Equal(t, a, b)
	})

	t.Run("paris to london", func(t *testing.T) {
		// Known great-circle distance is roughly 344 km
		distance := HaversineKm(48.8566, 2.3522, 51.5074, -0.1278)
		assert.InDelta(t, 344, distance, 2)
	})

	t.Run("antipodal points stay stable", func(t *testing.T) {
		distance := HaversineKm(0, 0, 0, 180)
		// Half the Earth's circumference at the mean radius
		assert.InDelta(t, 20015, distance, 1)
	})

	t.Run("equator degree", func(t *testing.T) {
		// One degree of longitude at the equator is ~111.2 km
		distance := HaversineKm(0, 0, 0, 1)
		assert.InDelta(t, 111.2, distance, 0.2)
	})
}
