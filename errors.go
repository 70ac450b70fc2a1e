// ./errors.go
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
	"errors"
	"fmt"
	"io/fs"

	"github.com/mshafiee/astroeph/internal/packfile"
	"github.com/mshafiee/astroeph/jpleph"
)

// Error classes. Every error returned by the engine matches exactly one of
// them with errors.Is.
var (
	// ErrUsage reports a bad argument or missing configuration. It is
	// detected before any file is touched.
	ErrUsage = errors.New("usage error")
	// ErrDataUnavailable reports a missing, short or corrupt data file, or
	// an epoch that no file covers.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrNonconvergence reports an iteration that hit its bound.
	ErrNonconvergence = errors.New("numeric nonconvergence")
)

var (
	ErrInvalidBody         = fmt.Errorf("%w: invalid body", ErrUsage)
	ErrConflictingFlags    = fmt.Errorf("%w: conflicting flags", ErrUsage)
	ErrNoObserver          = fmt.Errorf("%w: topocentric position requested without observer location", ErrUsage)
	ErrUnknownSiderealMode = fmt.Errorf("%w: unknown sidereal mode", ErrUsage)
	ErrUnknownHouseSystem  = fmt.Errorf("%w: unknown house system", ErrUsage)
	ErrInvalidDate         = fmt.Errorf("%w: invalid date", ErrUsage)
	ErrPolarLatitude       = fmt.Errorf("%w: house system undefined at this latitude", ErrUsage)

	ErrFileNotFound       = fmt.Errorf("%w: ephemeris file not found", ErrDataUnavailable)
	ErrFileUnreadable     = fmt.Errorf("%w: ephemeris file unreadable", ErrDataUnavailable)
	ErrOutsideRange       = fmt.Errorf("%w: epoch outside ephemeris range", ErrDataUnavailable)
	ErrCorruptFile        = fmt.Errorf("%w: corrupt ephemeris file", ErrDataUnavailable)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported ephemeris version", ErrDataUnavailable)

	ErrKeplerNonconvergence    = fmt.Errorf("%w: Kepler equation", ErrNonconvergence)
	ErrLightTimeNonconvergence = fmt.Errorf("%w: light-time iteration", ErrNonconvergence)
)

// classify maps errors from the file readers onto the engine's sentinels.
// Errors that already carry an engine sentinel are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, root := range []error{ErrUsage, ErrDataUnavailable, ErrNonconvergence} {
		if errors.Is(err, root) {
			return err
		}
	}
	var (
		sentinel error
		pathErr  *fs.PathError
	)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		sentinel = ErrFileNotFound
	case errors.Is(err, fs.ErrPermission), errors.As(err, &pathErr):
		sentinel = ErrFileUnreadable
	case errors.Is(err, jpleph.ErrOutsideRange), errors.Is(err, packfile.ErrOutsideRange):
		sentinel = ErrOutsideRange
	case errors.Is(err, jpleph.ErrUnsupportedVersion), errors.Is(err, packfile.ErrUnsupportedVersion):
		sentinel = ErrUnsupportedVersion
	case errors.Is(err, jpleph.ErrQuantityNotInEphemeris), errors.Is(err, packfile.ErrBodyNotInFile):
		sentinel = ErrDataUnavailable
	default:
		sentinel = ErrCorruptFile
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
