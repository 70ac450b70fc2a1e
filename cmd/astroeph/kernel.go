// ./cmd/astroeph/kernel.go
package main

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
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mshafiee/astroeph"
	"github.com/mshafiee/astroeph/jpleph"
)

func kernelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Inspect a JPL DE kernel directly",
	}
	cmd.AddCommand(kernelHeaderCmd())
	cmd.AddCommand(kernelPVCmd())
	cmd.AddCommand(kernelConstantsCmd())
	cmd.AddCommand(kernelMassesCmd())
	return cmd
}

func withKernel(path string, loadConstants bool, fn func(f *jpleph.File) error) error {
	f, err := jpleph.Open(path, jpleph.Options{LoadConstants: loadConstants, Logger: logger})
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", astroeph.ErrFileNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", astroeph.ErrFileUnreadable, err)
	case errors.Is(err, jpleph.ErrUnsupportedVersion):
		return fmt.Errorf("%w: %v", astroeph.ErrUnsupportedVersion, err)
	case err != nil:
		return fmt.Errorf("%w: %v", astroeph.ErrCorruptFile, err)
	}
	defer f.Close()
	return fn(f)
}

func kernelHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header FILE",
		Short: "Print the kernel header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKernel(args[0], false, func(f *jpleph.File) error {
				r := newReport(f.Name(), "Field", "Value")
				r.add(astroeph.NewEnvelope([]float64{f.Start(), f.End(), f.Step(), f.AU(), f.EMRAT(), float64(f.DENumber())}, 0, f.Name()),
					table.Row{"DE number", f.DENumber()},
					table.Row{"start (JD TDB)", fmt.Sprintf("%.1f", f.Start())},
					table.Row{"end (JD TDB)", fmt.Sprintf("%.1f", f.End())},
					table.Row{"record span (days)", f.Step()},
					table.Row{"coefficients per record", f.RecordCoefficients()},
					table.Row{"AU (km)", fmt.Sprintf("%.8f", f.AU())},
					table.Row{"Earth/Moon mass ratio", fmt.Sprintf("%.10f", f.EMRAT())},
					table.Row{"constants", f.NumConstants()},
					table.Row{"nutations", f.HasNutations()})
				return r.write()
			})
		},
	}
}

func kernelPVCmd() *cobra.Command {
	var (
		et     float64
		center string
	)
	cmd := &cobra.Command{
		Use:   "pv FILE [TARGET...]",
		Short: "Interpolate raw kernel states (default: every body about the barycenter)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseKernelBody(center)
			if err != nil {
				return err
			}
			targets := make([]jpleph.Body, 0, len(args)-1)
			for _, a := range args[1:] {
				b, err := parseKernelBody(a)
				if err != nil {
					return err
				}
				targets = append(targets, b)
			}
			if len(targets) == 0 {
				for b := jpleph.Mercury; b <= jpleph.EarthMoonBarycenter; b++ {
					targets = append(targets, b)
				}
			}
			return withKernel(args[0], false, func(f *jpleph.File) error {
				r := newReport(fmt.Sprintf("JD %.4f TDB about %v", et, c), "Target", "X", "Y", "Z", "dX", "dY", "dZ", "|r|")
				for _, b := range targets {
					pos, vel, err := f.PV(et, b, c, true)
					if err != nil {
						r.fail(b.String(), err)
						continue
					}
					dist := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
					r.add(astroeph.NewEnvelope([]float64{pos.X, pos.Y, pos.Z, vel.DX, vel.DY, vel.DZ}, 0, b.String()),
						table.Row{b, e5(pos.X), e5(pos.Y), e5(pos.Z), e5(vel.DX), e5(vel.DY), e5(vel.DZ), e5(dist)})
				}
				return r.write()
			})
		},
	}
	cmd.Flags().Float64Var(&et, "jd", 2451545.0, "Julian Ephemeris Date")
	cmd.Flags().StringVar(&center, "center", "ssb", "center body")
	return cmd
}

func e5(v float64) string { return fmt.Sprintf("%12.5e", v) }

// parseKernelBody accepts a kernel body number or name.
func parseKernelBody(s string) (jpleph.Body, error) {
	if n, err := strconv.Atoi(s); err == nil {
		b := jpleph.Body(n)
		if b >= jpleph.Mercury && b <= jpleph.TTmTDB {
			return b, nil
		}
	}
	key := foldName(s)
	for b := jpleph.Mercury; b <= jpleph.TTmTDB; b++ {
		if foldName(b.String()) == key {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: kernel body %q", astroeph.ErrInvalidBody, s)
}

func kernelConstantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "constants FILE [NAME...]",
		Short: "List header constants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKernel(args[0], true, func(f *jpleph.File) error {
				consts, err := f.Constants()
				if err != nil {
					return err
				}
				names := args[1:]
				if len(names) == 0 {
					for n := range consts {
						names = append(names, n)
					}
					sort.Strings(names)
				}
				r := newReport(f.Name(), "Name", "Value")
				for _, n := range names {
					v, ok := consts[strings.ToUpper(n)]
					if !ok {
						r.fail(n, fmt.Errorf("%w: %q", jpleph.ErrConstantNotFound, n))
						continue
					}
					r.add(astroeph.NewEnvelope([]float64{v}, 0, n), table.Row{n, fmt.Sprintf("%.17g", v)})
				}
				return r.write()
			})
		},
	}
}

const nMasses = 16

var massNames = [nMasses]string{"Sun", "Mercury", "Venus", "EMB", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto", "Earth", "Moon",
	"Ceres", "Pallas", "Juno", "Vesta"}

// massTable collects GM values in AU³/day² from the kernel constants.
type massTable struct {
	gm    [nMasses]float64
	emrat float64
	au    float64
}

func readMasses(consts map[string]float64) massTable {
	var t massTable
	for name, value := range consts {
		switch {
		case name == "GMS":
			t.gm[0] = value
		case name == "GMB":
			t.gm[3] = value
		case len(name) == 3 && strings.HasPrefix(name, "GM"):
			if idx, err := strconv.Atoi(name[2:]); err == nil && idx >= 1 && idx <= 9 && idx != 3 {
				t.gm[idx] = value
			}
		case name == "EMRAT":
			t.emrat = value
		case name == "AU":
			t.au = value
		case strings.HasPrefix(name, "MA000"):
			if idx, err := strconv.Atoi(name[5:]); err == nil && idx >= 1 && idx <= 4 {
				t.gm[idx+11] = value
			}
		}
	}
	t.gm[11] = t.gm[3] / (1 + t.emrat)
	t.gm[10] = t.gm[3] - t.gm[11]
	return t
}

func kernelMassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "masses FILE",
		Short: "Print the planetary masses stored in the kernel constants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withKernel(args[0], true, func(f *jpleph.File) error {
				consts, err := f.Constants()
				if err != nil {
					return err
				}
				t := readMasses(consts)
				const secondsPerDay = 86400.0
				r := newReport(f.Name(), "Body", "mass/mass(Sun)", "mass(Sun)/mass", "GM (km³/s²)", "GM (AU³/day²)")
				for i, name := range massNames {
					if t.gm[i] == 0 || t.gm[0] == 0 {
						continue
					}
					gmKM := t.gm[i] * t.au * t.au * t.au / (secondsPerDay * secondsPerDay)
					ratio, inverse := t.gm[i]/t.gm[0], t.gm[0]/t.gm[i]
					r.add(astroeph.NewEnvelope([]float64{ratio, inverse, gmKM, t.gm[i]}, int32(i), name),
						table.Row{name, fmt.Sprintf("%.15e", ratio), fmt.Sprintf("%.15e", inverse),
							fmt.Sprintf("%.15e", gmKM), fmt.Sprintf("%.15e", t.gm[i])})
				}
				return r.write()
			})
		},
	}
}
