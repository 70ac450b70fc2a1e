// ./source.go
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

	"github.com/mshafiee/astroeph/internal/packfile"
	"github.com/mshafiee/astroeph/jpleph"
)

// provider yields barycentric ICRS states (AU, AU/day) of the Sun, the
// planets, the Earth and the Moon, keyed by NAIF id.
type provider interface {
	source() Source
	barycentric(jd float64, id int32) (state, error)
	nutation(jd float64) (nutationAngles, error)
	emrat() float64
}

// naifID maps the major bodies to NAIF ids.
func naifID(b Body) (int32, bool) {
	switch b {
	case Sun:
		return packfile.Sun, true
	case Moon:
		return packfile.Moon, true
	case Earth:
		return packfile.Earth, true
	case Mercury:
		return packfile.Mercury, true
	case Venus:
		return packfile.Venus, true
	case Mars, Jupiter, Saturn, Uranus, Neptune, Pluto:
		return int32(b - Mars + 4), true
	}
	return 0, false
}

// packedSource reads the packed planetary and lunar files.
type packedSource struct {
	store *fileStore
}

func (p packedSource) source() Source { return SourcePacked }

func (p packedSource) read(family string, jd float64, id int32) (state, int32, error) {
	f, err := p.store.get(SourcePacked, family, jd)
	if err != nil {
		return state{}, 0, err
	}
	pos, vel, center, err := f.packed.State(id, jd, true)
	if err != nil {
		return state{}, 0, classify(err)
	}
	return stateOf(pos, vel), center, nil
}

func (p packedSource) barycentric(jd float64, id int32) (state, error) {
	switch id {
	case packfile.SSB:
		return state{}, nil
	case packfile.Earth, packfile.Moon:
		emb, err := p.barycentric(jd, packfile.EMB)
		if err != nil {
			return state{}, err
		}
		moon, _, err := p.read(familyMoon, jd, packfile.Moon)
		if err != nil {
			return state{}, err
		}
		earth := emb.sub(moon.scale(1 / (1 + emrat)))
		if id == packfile.Earth {
			return earth, nil
		}
		return earth.add(moon), nil
	}
	s, center, err := p.read(familyPlanets, jd, id)
	if err != nil {
		return state{}, err
	}
	if center != packfile.SSB {
		c, err := p.barycentric(jd, center)
		if err != nil {
			return state{}, err
		}
		s = s.add(c)
	}
	return s, nil
}

func (p packedSource) nutation(jd float64) (nutationAngles, error) { return seriesNutation(jd), nil }

func (p packedSource) emrat() float64 { return emrat }

// jplSource reads a JPL DE kernel.
type jplSource struct {
	store *fileStore
}

func (j jplSource) source() Source { return SourceJPL }

func (j jplSource) file(jd float64) (*jpleph.File, error) {
	f, err := j.store.get(SourceJPL, familyJPL, jd)
	if err != nil {
		return nil, err
	}
	return f.jpl, nil
}

var jplBodies = map[int32]jpleph.Body{
	packfile.Mercury: jpleph.Mercury,
	packfile.Venus:   jpleph.Venus,
	packfile.EMB:     jpleph.EarthMoonBarycenter,
	packfile.Mars:    jpleph.Mars,
	packfile.Jupiter: jpleph.Jupiter,
	packfile.Saturn:  jpleph.Saturn,
	packfile.Uranus:  jpleph.Uranus,
	packfile.Neptune: jpleph.Neptune,
	packfile.Pluto:   jpleph.Pluto,
	packfile.Sun:     jpleph.Sun,
	packfile.Moon:    jpleph.Moon,
	packfile.Earth:   jpleph.Earth,
}

func (j jplSource) barycentric(jd float64, id int32) (state, error) {
	if id == packfile.SSB {
		return state{}, nil
	}
	body, ok := jplBodies[id]
	if !ok {
		return state{}, fmt.Errorf("%w: body %d not in JPL kernels", ErrDataUnavailable, id)
	}
	f, err := j.file(jd)
	if err != nil {
		return state{}, err
	}
	pos, vel, err := f.PV(jd, body, jpleph.SolarSystemBarycenter, true)
	if err != nil {
		return state{}, classify(err)
	}
	return stateOf([3]float64{pos.X, pos.Y, pos.Z}, [3]float64{vel.DX, vel.DY, vel.DZ}), nil
}

// nutation prefers the kernel's own nutation series.
func (j jplSource) nutation(jd float64) (nutationAngles, error) {
	f, err := j.file(jd)
	if err != nil {
		return nutationAngles{}, err
	}
	if !f.HasNutations() {
		return seriesNutation(jd), nil
	}
	dpsi, deps, dpsiDot, depsDot, err := f.Nutation(jd)
	if err != nil {
		return nutationAngles{}, classify(err)
	}
	return nutationAngles{dpsi: dual{dpsi, dpsiDot}, deps: dual{deps, depsDot}}, nil
}

func (j jplSource) emrat() float64 {
	if f, ok := j.store.cache.Peek(storeKey{SourceJPL, familyJPL}); ok {
		return f.jpl.EMRAT()
	}
	return emrat
}

// provider returns the back end for src.
func (e *Engine) provider(src Source) provider {
	switch src {
	case SourceJPL:
		return jplSource{e.store}
	case SourcePacked:
		return packedSource{e.store}
	}
	return analyticSource{extrapolate: e.cfg.AllowExtrapolation}
}

// asteroidFamilyOf returns the file family of asteroid n.
func asteroidFamilyOf(n int) string {
	switch n {
	case 1, 2, 3, 4, 2060, 5145:
		return familyMainAst
	}
	return asteroidFamily(n)
}

// bodyBarycentric returns the barycentric ICRS state of a body other than
// a lunar point. Asteroids always come from packed asteroid files; their
// center is taken from p.
func (e *Engine) bodyBarycentric(p provider, jd float64, b Body) (state, error) {
	if id, ok := naifID(b); ok {
		return p.barycentric(jd, id)
	}
	if el, ok := uranianElements[b]; ok {
		helio, err := el.heliocentric(jd)
		if err != nil {
			return state{}, err
		}
		sun, err := p.barycentric(jd, packfile.Sun)
		if err != nil {
			return state{}, err
		}
		return sun.add(helio), nil
	}
	n, ok := b.asteroidNumber()
	if !ok {
		return state{}, fmt.Errorf("%w: %d", ErrInvalidBody, int(b))
	}
	f, err := e.store.get(SourcePacked, asteroidFamilyOf(n), jd)
	if err != nil {
		return state{}, err
	}
	pos, vel, center, err := f.packed.State(packfile.AsteroidBase+int32(n), jd, true)
	if err != nil {
		return state{}, classify(err)
	}
	s := stateOf(pos, vel)
	if center == packfile.SSB {
		return s, nil
	}
	c, err := p.barycentric(jd, center)
	if err != nil {
		return state{}, err
	}
	return s.add(c), nil
}
