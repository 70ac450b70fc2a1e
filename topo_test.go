package astroeph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGeodetic(t *testing.T) {
	tests := []struct {
		name string
		obs  Observer
		want r3.Vec
	}{
		{"equator prime meridian", Observer{}, r3.Vec{X: wgs84A}},
		{"equator 90E", Observer{Lon: 90}, r3.Vec{Y: wgs84A}},
		{"north pole", Observer{Lat: 90}, r3.Vec{Z: wgs84A * (1 - wgs84F)}},
		{"elevated", Observer{Elev: 1000}, r3.Vec{X: wgs84A + 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geodetic(tt.obs)
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-6)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-6)
		})
	}
}

func TestObserverTrueOfDate(t *testing.T) {
	s := observerTrueOfDate(Observer{Lon: 13.4, Elev: 0}, 2451545.0)
	assert.InDelta(t, wgs84A/auMetres, r3.Norm(s.pos), 1e-15)
	assert.InDelta(t, 0, s.pos.Z, 1e-15)
	// About 465 m/s at the equator.
	assert.InDelta(t, 465.1, r3.Norm(s.vel)*auMetres/secondsPerDay, 0.1)
	assert.InDelta(t, 0, r3.Dot(s.pos, s.vel), 1e-18)
}
