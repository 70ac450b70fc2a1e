// ./store.go
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
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/mshafiee/astroeph/internal/packfile"
	"github.com/mshafiee/astroeph/jpleph"
)

// FileKind names the role of an ephemeris file.
type FileKind int

const (
	FilePlanets FileKind = iota
	FileMoon
	FileMainAsteroids
	FileAsteroid
	FileJPL
)

func (k FileKind) String() string {
	switch k {
	case FilePlanets:
		return "planets"
	case FileMoon:
		return "moon"
	case FileMainAsteroids:
		return "main asteroids"
	case FileAsteroid:
		return "asteroid"
	case FileJPL:
		return "jpl"
	}
	return fmt.Sprintf("FileKind(%d)", int(k))
}

// FileData describes an opened ephemeris file.
type FileData struct {
	Kind     FileKind
	Path     string
	Start    float64 // first Julian Day TT covered
	End      float64 // last Julian Day TT covered
	DENumber int     // numerical integration the file derives from
}

const (
	familyPlanets = "planets"
	familyMoon    = "moon"
	familyMainAst = "mainast"
	familyJPL     = "jpl"

	// blockYears is the span of one packed planetary, lunar or main
	// asteroid file.
	blockYears = 600
)

func asteroidFamily(n int) string { return fmt.Sprintf("ast:%d", n) }

// storeKey identifies a cached file: its source and the family of bodies
// it serves.
type storeKey struct {
	source Source
	family string
}

type openFile struct {
	meta   FileData
	packed *packfile.File
	jpl    *jpleph.File
}

func (f *openFile) covers(jd float64) bool {
	return jd >= f.meta.Start && jd <= f.meta.End
}

func (f *openFile) close() error {
	if f.jpl != nil {
		return f.jpl.Close()
	}
	return f.packed.Close()
}

// fileStore keeps recently used ephemeris files open.
type fileStore struct {
	cache    *lru.Cache[storeKey, *openFile]
	ephePath string
	jplFile  string
	last     *FileData
	byKind   map[FileKind]FileData
	log      *zap.Logger
}

func newFileStore(size int, ephePath, jplFile string, log *zap.Logger) (*fileStore, error) {
	s := &fileStore{
		ephePath: ephePath,
		jplFile:  jplFile,
		byKind:   make(map[FileKind]FileData),
		log:      log,
	}
	cache, err := lru.NewWithEvict(size, s.evicted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	s.cache = cache
	return s, nil
}

func (s *fileStore) evicted(key storeKey, f *openFile) {
	if err := f.close(); err != nil {
		s.log.Warn("closing ephemeris file", zap.String("path", f.meta.Path), zap.Error(err))
		return
	}
	s.log.Debug("ephemeris file closed",
		zap.Stringer("source", key.source), zap.String("family", key.family), zap.String("path", f.meta.Path))
}

// purge closes every cached file and forgets the file metadata.
func (s *fileStore) purge() {
	s.cache.Purge()
	s.last = nil
	s.byKind = make(map[FileKind]FileData)
}

// setPaths changes where files are looked up. Open files are closed.
func (s *fileStore) setPaths(ephePath, jplFile string) {
	if ephePath == s.ephePath && jplFile == s.jplFile {
		return
	}
	s.ephePath, s.jplFile = ephePath, jplFile
	s.cache.Purge()
}

// get returns an open file of the family that covers jd. A cached file
// that does not cover jd is closed and the file for jd's block resolved.
func (s *fileStore) get(src Source, family string, jd float64) (*openFile, error) {
	key := storeKey{src, family}
	if f, ok := s.cache.Get(key); ok {
		if f.covers(jd) {
			return f, nil
		}
		s.log.Debug("cached file does not cover epoch",
			zap.String("path", f.meta.Path), zap.Float64("jd", jd))
		s.cache.Remove(key)
	}

	f, err := s.open(src, family, jd)
	if err != nil {
		return nil, err
	}
	if !f.covers(jd) {
		_ = f.close()
		return nil, fmt.Errorf("%w: %s covers JD %.1f to %.1f, got %.6f",
			ErrOutsideRange, f.meta.Path, f.meta.Start, f.meta.End, jd)
	}
	s.cache.Add(key, f)
	meta := f.meta
	s.last = &meta
	s.byKind[meta.Kind] = meta
	s.log.Debug("ephemeris file opened",
		zap.Stringer("source", src), zap.String("family", family), zap.String("path", meta.Path),
		zap.Float64("start", meta.Start), zap.Float64("end", meta.End), zap.Int("de", meta.DENumber))
	return f, nil
}

func (s *fileStore) open(src Source, family string, jd float64) (*openFile, error) {
	if src == SourceJPL {
		path := s.jplFile
		if !filepath.IsAbs(path) {
			var err error
			if path, err = s.find(path); err != nil {
				return nil, err
			}
		}
		jf, err := jpleph.Open(path, jpleph.Options{Logger: s.log})
		if err != nil {
			return nil, classify(err)
		}
		return &openFile{
			meta: FileData{Kind: FileJPL, Path: path, Start: jf.Start(), End: jf.End(), DENumber: jf.DENumber()},
			jpl:  jf,
		}, nil
	}

	name, kind := packedFileName(family, jd)
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}
	pf, err := packfile.Open(path)
	if err != nil {
		return nil, classify(err)
	}
	h := pf.Header
	return &openFile{
		meta:   FileData{Kind: kind, Path: path, Start: h.Start, End: h.End, DENumber: int(h.DENumber)},
		packed: pf,
	}, nil
}

// find looks name up in each directory of the ephemeris path.
func (s *fileStore) find(name string) (string, error) {
	dirs := filepath.SplitList(s.ephePath)
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrFileNotFound, name, strings.Join(dirs, string(filepath.ListSeparator)))
}

// packedFileName returns the file that serves family at jd.
func packedFileName(family string, jd float64) (string, FileKind) {
	if n, ok := strings.CutPrefix(family, "ast:"); ok {
		var num int
		fmt.Sscanf(n, "%d", &num)
		return filepath.Join(fmt.Sprintf("ast%d", num/1000), fmt.Sprintf("se%05d.se1", num)), FileAsteroid
	}
	prefix, kind := "sepl", FilePlanets
	switch family {
	case familyMoon:
		prefix, kind = "semo", FileMoon
	case familyMainAst:
		prefix, kind = "seas", FileMainAsteroids
	}
	return blockFileName(prefix, jd), kind
}

func blockFileName(prefix string, jd float64) string {
	y, _, _, _ := RevJul(jd, Gregorian)
	block := int(math.Floor(float64(y)/blockYears)) * blockYears
	if block < 0 {
		return fmt.Sprintf("%sm%02d.se1", prefix, -block/100)
	}
	return fmt.Sprintf("%s_%02d.se1", prefix, block/100)
}

// fileData returns the metadata of the last opened file of kind.
func (s *fileStore) fileData(kind FileKind) (FileData, bool) {
	fd, ok := s.byKind[kind]
	return fd, ok
}
