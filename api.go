// ./api.go

/*
Package astroeph computes positions, velocities, orbital elements,
ayanamsas and house cusps of solar system bodies.

Positions come from one of three sources: a JPL DE kernel read with the
jpleph package, packed Chebyshev files (sepl_*.se1 and friends), or the
built-in analytic series. A request that names an unavailable source falls
back once to the next one, and the result says which source produced it.

Usage:

 1. Create a session:
    ```go
    eng, err := astroeph.New(astroeph.WithLogger(logger))
    if err != nil {
        log.Fatal(err)
    }
    defer eng.Close()
    eng.SetEphePath("/usr/share/ephe")
    ```

 2. Convert a civil date and compute a position:
    ```go
    jdET, _, err := eng.UTCToJD(2020, 1, 25, 15, 35, 0, astroeph.Gregorian)
    pos, err := eng.Calc(jdET, astroeph.Sun, astroeph.FlagSwiEph|astroeph.FlagSpeed)
    fmt.Printf("lon %.6f speed %.6f via %v\n", pos.Values[0], pos.Values[3], pos.Source.Actual)
    ```

 3. Houses:
    ```go
    h, err := eng.Houses(jdUT, 37, 0, astroeph.Placidus)
    ```

An Engine is one session: configuration set on it never leaks into another
Engine. All methods are safe for concurrent use; each call sees a
consistent configuration.

License:
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

// Package astroeph provides an astronomical ephemeris engine.
package astroeph

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
	"go.uber.org/zap"
)

const version = "1.2.0"

// Version returns the library version.
func Version() string { return version }

// Engine is one calculation session: configuration, open files and a
// logger.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	defaults Config
	store    *fileStore
	log      *zap.Logger
	session  string
}

// Option configures New.
type Option func(*Engine)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithConfig replaces the default configuration. Reset restores it.
func WithConfig(c Config) Option {
	return func(e *Engine) {
		e.defaults = c.clone()
	}
}

// New creates a session.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{defaults: DefaultConfig(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.defaults.Validate(); err != nil {
		return nil, err
	}
	e.session = uuid.NewString()
	e.log = e.log.With(zap.String("session", e.session))
	e.cfg = e.defaults.clone()
	store, err := newFileStore(e.cfg.CacheSize, e.cfg.EphePath, e.cfg.JPLFile, e.log)
	if err != nil {
		return nil, err
	}
	e.store = store
	e.log.Debug("session started", zap.String("ephe_path", e.cfg.EphePath), zap.String("jpl_file", e.cfg.JPLFile))
	return e, nil
}

// Session returns the session identifier used in log entries.
func (e *Engine) Session() string { return e.session }

// Config returns a copy of the live configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.clone()
}

// SetEphePath sets the list of directories searched for ephemeris files,
// separated like PATH. Open files are closed.
func (e *Engine) SetEphePath(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.EphePath = path
	e.store.setPaths(e.cfg.EphePath, e.cfg.JPLFile)
}

// SetJPLFile sets the JPL kernel name, resolved against the ephemeris path
// unless absolute.
func (e *Engine) SetJPLFile(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.JPLFile = name
	e.store.setPaths(e.cfg.EphePath, e.cfg.JPLFile)
}

// SetSiderealMode selects an ayanamsa. t0 (JD TT) and ayanT0 (degrees)
// are used by SidmUser only.
func (e *Engine) SetSiderealMode(mode SiderealMode, t0, ayanT0 float64) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSiderealMode, int(mode))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Sidereal.Mode = mode
	e.cfg.Sidereal.T0 = t0
	e.cfg.Sidereal.AyanT0 = ayanT0
	return nil
}

// SetSiderealBits selects a sidereal projection, or none with 0.
func (e *Engine) SetSiderealBits(b SiderealBits) error {
	switch b {
	case 0, SidBitEclT0, SidBitSSYPlane:
	default:
		return fmt.Errorf("%w: sidereal bits 0x%x", ErrConflictingFlags, uint32(b))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Sidereal.Bits = b
	return nil
}

// SiderealMode returns the sidereal configuration.
func (e *Engine) SiderealMode() SiderealConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Sidereal
}

// SetDeltaT fixes delta-T in days for all later conversions.
// DeltaTAutomatic restores the built-in model.
func (e *Engine) SetDeltaT(days float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.DeltaT = days
	e.log.Debug("delta-T override", zap.Float64("days", days), zap.Bool("automatic", days == DeltaTAutomatic))
}

// SetTidalAcceleration sets the lunar tidal acceleration in arcsec/cy²
// used by the delta-T model.
func (e *Engine) SetTidalAcceleration(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.TidalAcceleration = v
	e.log.Debug("tidal acceleration", zap.Float64("arcsec_cy2", v))
}

// TidalAcceleration returns the tidal acceleration in use.
func (e *Engine) TidalAcceleration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.TidalAcceleration
}

// SetAllowExtrapolation lets the analytic source run outside its nominal
// span.
func (e *Engine) SetAllowExtrapolation(allow bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.AllowExtrapolation = allow
}

// SetTopo sets the observer for topocentric positions.
func (e *Engine) SetTopo(lon, lat, elev float64) error {
	o := Observer{Lon: lon, Lat: lat, Elev: elev}
	if err := o.validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Observer = &o
	return nil
}

// ClearTopo removes the observer.
func (e *Engine) ClearTopo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Observer = nil
}

// Topo returns the observer, if one is set.
func (e *Engine) Topo() (Observer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cfg.Observer == nil {
		return Observer{}, false
	}
	return *e.cfg.Observer, true
}

// FileData returns the metadata of the last opened file of kind.
func (e *Engine) FileData(kind FileKind) (FileData, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.fileData(kind)
}

// LastFileData returns the metadata of the most recently opened file.
func (e *Engine) LastFileData() (FileData, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store.last == nil {
		return FileData{}, false
	}
	return *e.store.last, true
}

// Reset closes every file and restores the configuration the session was
// created with.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.purge()
	e.cfg = e.defaults.clone()
	e.store.setPaths(e.cfg.EphePath, e.cfg.JPLFile)
	e.log.Debug("session reset")
}

// Close closes every file. The configuration is kept and the engine stays
// usable.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.purge()
	return nil
}

// deltaT returns delta-T in days at jdUT.
func (e *Engine) deltaT(jdUT float64) float64 {
	if e.cfg.DeltaT != DeltaTAutomatic {
		return e.cfg.DeltaT
	}
	return deltaTModel(jdUT, e.cfg.TidalAcceleration)
}

// DeltaT returns TT - UT1 in days at jdUT.
func (e *Engine) DeltaT(jdUT float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deltaT(jdUT)
}

// UTCToJD converts a UTC date to Julian Days TT and UT1.
func (e *Engine) UTCToJD(year, month, day, hour, minute int, sec float64, cal Calendar) (jdET, jdUT float64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	u := UTCDate{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: sec, Calendar: cal}
	return utcToJD(u, e.deltaT)
}

// JDETToUTC converts a Julian Day TT to a UTC date.
func (e *Engine) JDETToUTC(jdET float64, cal Calendar) UTCDate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return jdETToUTC(jdET, cal, e.deltaT)
}

// JDUTToUTC converts a Julian Day UT1 to a UTC date.
func (e *Engine) JDUTToUTC(jdUT float64, cal Calendar) UTCDate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return jdETToUTC(jdUT+e.deltaT(jdUT), cal, e.deltaT)
}

// Calc computes the position of body at jdET (TT).
func (e *Engine) Calc(jdET float64, body Body, flags CalcFlags) (Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calc(jdET, body, flags)
}

// CalcUT computes the position of body at jdUT (UT1).
func (e *Engine) CalcUT(jdUT float64, body Body, flags CalcFlags) (Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calc(jdUT+e.deltaT(jdUT), body, flags)
}

// OrbitalElements computes osculating elements of body at jdET.
func (e *Engine) OrbitalElements(jdET float64, body Body, flags ElementFlags) (OrbitalElements, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orbitalElements(jdET, body, flags)
}

// Ayanamsa returns the ayanamsa of the configured mode at jdET in degrees.
// withNutation adds the nutation in longitude, which is taken from the
// source selected by flags.
func (e *Engine) Ayanamsa(jdET float64, flags CalcFlags, withNutation bool) (float64, CalcFlags, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, res, err := e.ayanamsa(jdET, flags, withNutation)
	if err != nil {
		return 0, 0, err
	}
	return a, res.flags(flags), nil
}

// AyanamsaUT is Ayanamsa at a UT1 Julian Day.
func (e *Engine) AyanamsaUT(jdUT float64, flags CalcFlags, withNutation bool) (float64, CalcFlags, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, res, err := e.ayanamsa(jdUT+e.deltaT(jdUT), flags, withNutation)
	if err != nil {
		return 0, 0, err
	}
	return a, res.flags(flags), nil
}

func (e *Engine) ayanamsa(jd float64, flags CalcFlags, withNut bool) (float64, SourceResolution, error) {
	if rest := flags &^ knownFlags; rest != 0 {
		return 0, SourceResolution{}, fmt.Errorf("%w: unknown flag bits 0x%x", ErrUsage, uint32(rest))
	}
	src, explicit, err := sourceOf(flags)
	if err != nil {
		return 0, SourceResolution{}, err
	}
	res := SourceResolution{Requested: src, Actual: src}
	var nut *nutationAngles
	if withNut {
		n, err := e.provider(src).nutation(jd)
		if next, ok := src.fallback(); ok && errors.Is(err, ErrDataUnavailable) {
			res.Reason = e.logFallback(src, next, explicit, err)
			res.Actual = next
			n, err = e.provider(next).nutation(jd)
		}
		if err != nil {
			return 0, SourceResolution{}, err
		}
		nut = &n
	}
	a, err := ayanamsaAt(e.cfg.Sidereal, jd, nut)
	if err != nil {
		return 0, SourceResolution{}, err
	}
	return a.v * rad2deg, res, nil
}

// Houses computes cusps and angles at jdUT for a place at geographic
// latitude geoLat and longitude geoLon (degrees, east positive).
func (e *Engine) Houses(jdUT, geoLat, geoLon float64, hsys HouseSystem) (Houses, error) {
	return e.HousesEx(jdUT, 0, geoLat, geoLon, hsys)
}

// HousesEx is Houses with sidereal and radian output options.
func (e *Engine) HousesEx(jdUT float64, flags HouseFlags, geoLat, geoLon float64, hsys HouseSystem) (Houses, error) {
	if rest := flags &^ (HouseRadians | HouseSidereal); rest != 0 {
		return Houses{}, fmt.Errorf("%w: unknown house flag bits 0x%x", ErrUsage, uint32(rest))
	}
	if math.IsNaN(geoLon) || math.Abs(geoLon) > 360 {
		return Houses{}, fmt.Errorf("%w: longitude %g", ErrUsage, geoLon)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	jdET := jdUT + e.deltaT(jdUT)
	nut := seriesNutation(jdET)
	eps := (meanObliquity(jdET).v + nut.deps.v) * rad2deg
	armc := (sidereal.Apparent(jdUT).Angle() + unit.AngleFromDeg(geoLon)).Mod1().Deg()
	h, err := HousesARMC(armc, geoLat, eps, hsys)
	if err != nil {
		return Houses{}, err
	}
	if flags&HouseSidereal != 0 {
		ayan, err := ayanamsaAt(e.cfg.Sidereal, jdET, &nut)
		if err != nil {
			return Houses{}, err
		}
		a := ayan.v * rad2deg
		for k := range h.Cusps {
			h.Cusps[k] = normDeg(h.Cusps[k] - a)
		}
		for k := range h.Angles {
			if k != AngleARMC {
				h.Angles[k] = normDeg(h.Angles[k] - a)
			}
		}
	}
	if flags&HouseRadians != 0 {
		for k := range h.Cusps {
			h.Cusps[k] *= deg2rad
		}
		for k := range h.Angles {
			h.Angles[k] *= deg2rad
		}
	}
	return h, nil
}

// CalcEnvelope is Calc reported through an Envelope.
func (e *Engine) CalcEnvelope(jdET float64, body Body, flags CalcFlags) Envelope {
	pos, err := e.Calc(jdET, body, flags)
	if err != nil {
		return FromError(err)
	}
	return NewEnvelope(pos.Values[:], int32(pos.Flags), pos.Source.Reason)
}

// ElementsEnvelope is OrbitalElements reported through an Envelope.
func (e *Engine) ElementsEnvelope(jdET float64, body Body, flags ElementFlags) Envelope {
	el, err := e.OrbitalElements(jdET, body, flags)
	if err != nil {
		return FromError(err)
	}
	return NewEnvelope(el.Values(), int32(el.Flags), el.Source.Reason)
}

// HousesEnvelope is HousesEx reported through an Envelope.
func (e *Engine) HousesEnvelope(jdUT float64, flags HouseFlags, geoLat, geoLon float64, hsys HouseSystem) Envelope {
	h, err := e.HousesEx(jdUT, flags, geoLat, geoLon, hsys)
	if err != nil {
		return FromError(err)
	}
	return NewEnvelope(h.Values(), int32(flags), "")
}

// AyanamsaEnvelope is Ayanamsa reported through an Envelope.
func (e *Engine) AyanamsaEnvelope(jdET float64, flags CalcFlags, withNutation bool) Envelope {
	e.mu.Lock()
	a, res, err := e.ayanamsa(jdET, flags, withNutation)
	e.mu.Unlock()
	if err != nil {
		return FromError(err)
	}
	return NewEnvelope([]float64{a}, int32(res.flags(flags)), res.Reason)
}

// UTCEnvelope is UTCToJD reported through an Envelope.
func (e *Engine) UTCEnvelope(year, month, day, hour, minute int, sec float64, cal Calendar) Envelope {
	jdET, jdUT, err := e.UTCToJD(year, month, day, hour, minute, sec, cal)
	if err != nil {
		return FromError(err)
	}
	return NewEnvelope([]float64{jdET, jdUT}, 0, "")
}
