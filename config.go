// ./config.go
package astroeph

/*
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DeltaTAutomatic restores the built-in delta-T model when passed to
// SetDeltaT.
const DeltaTAutomatic = -1e-10

// DefaultTidalAcceleration is the lunar tidal acceleration, in arcsec/cy²,
// that the delta-T polynomials were fitted with.
const DefaultTidalAcceleration = -25.80

const defaultCacheSize = 8

// Observer is a geographic location on the WGS-84 ellipsoid.
type Observer struct {
	Lon  float64 `yaml:"lon"`  // degrees, east positive
	Lat  float64 `yaml:"lat"`  // degrees, north positive
	Elev float64 `yaml:"elev"` // metres above the ellipsoid
}

// SiderealConfig selects an ayanamsa.
type SiderealConfig struct {
	Mode   SiderealMode `yaml:"mode"`
	T0     float64      `yaml:"t0"`      // reference epoch, JD TT, user mode only
	AyanT0 float64      `yaml:"ayan_t0"` // ayanamsa at T0 in degrees, user mode only
	Bits   SiderealBits `yaml:"bits"`
}

// Config is the mutable state of one engine session.
type Config struct {
	EphePath           string         `yaml:"ephe_path"`
	JPLFile            string         `yaml:"jpl_file"`
	Sidereal           SiderealConfig `yaml:"sidereal"`
	Observer           *Observer      `yaml:"observer"`
	DeltaT             float64        `yaml:"delta_t"` // days, or DeltaTAutomatic
	TidalAcceleration  float64        `yaml:"tidal_acceleration"`
	AllowExtrapolation bool           `yaml:"allow_extrapolation"`
	CacheSize          int            `yaml:"cache_size"`
}

// DefaultConfig returns the configuration of a fresh engine.
func DefaultConfig() Config {
	return Config{
		EphePath:          ".",
		JPLFile:           "de431.eph",
		Sidereal:          SiderealConfig{Mode: SidmFaganBradley},
		DeltaT:            DeltaTAutomatic,
		TidalAcceleration: DefaultTidalAcceleration,
		CacheSize:         defaultCacheSize,
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ConfigFromYAML(data)
}

// ConfigFromYAML parses YAML over the defaults and validates the result.
func ConfigFromYAML(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: invalid config yaml: %v", ErrUsage, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and mode identifiers.
func (c *Config) Validate() error {
	if c.CacheSize < 1 {
		return fmt.Errorf("%w: cache_size must be positive, got %d", ErrUsage, c.CacheSize)
	}
	if !c.Sidereal.Mode.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSiderealMode, int(c.Sidereal.Mode))
	}
	if c.Sidereal.Bits&^(SidBitEclT0|SidBitSSYPlane) != 0 {
		return fmt.Errorf("%w: sidereal bits 0x%x", ErrUsage, uint32(c.Sidereal.Bits))
	}
	if c.Sidereal.Bits == SidBitEclT0|SidBitSSYPlane {
		return fmt.Errorf("%w: sidereal projections are exclusive", ErrConflictingFlags)
	}
	if o := c.Observer; o != nil {
		if err := o.validate(); err != nil {
			return err
		}
	}
	if math.IsNaN(c.DeltaT) || math.IsNaN(c.TidalAcceleration) {
		return fmt.Errorf("%w: delta_t and tidal_acceleration must be numbers", ErrUsage)
	}
	return nil
}

func (o Observer) validate() error {
	if math.Abs(o.Lat) > 90 || math.Abs(o.Lon) > 180 || math.IsNaN(o.Elev) {
		return fmt.Errorf("%w: observer (%g, %g, %g) out of range", ErrUsage, o.Lon, o.Lat, o.Elev)
	}
	return nil
}

func (c Config) clone() Config {
	if c.Observer != nil {
		o := *c.Observer
		c.Observer = &o
	}
	return c
}
