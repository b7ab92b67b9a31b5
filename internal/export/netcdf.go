package export

import (
	"fmt"
	"sort"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
)

// Variable is one column written along the time dimension.
type Variable struct {
	Name   string
	Units  string
	Values []float64
}

// Dataset is a set of equally long columns sharing a time dimension.
type Dataset struct {
	// TimeUnits follows the CF convention, e.g.
	// "seconds since 2000-01-01 00:00:00".
	TimeUnits string
	Time      []float64
	Variables []Variable
	// Gaps flags each time step that follows a recording gap.
	Gaps   []int
	Global map[string]string
}

const timeDim = "time"

// WriteNetCDF writes d as a classic NetCDF file.
func WriteNetCDF(filePath string, d *Dataset) (err error) {
	for _, v := range d.Variables {
		if len(v.Values) != len(d.Time) {
			return fmt.Errorf("variable %q has %d values; want %d", v.Name, len(v.Values), len(d.Time))
		}
	}
	cw, err := cdf.OpenWriter(filePath)
	if err != nil {
		return fmt.Errorf("cannot create netcdf file: %w", err)
	}
	defer func() {
		if cerr := cw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close netcdf file: %w", cerr)
		}
	}()

	if len(d.Global) > 0 {
		attrs, err := stringAttrs(d.Global)
		if err != nil {
			return err
		}
		if err := cw.AddGlobalAttrs(attrs); err != nil {
			return fmt.Errorf("cannot add global attributes: %w", err)
		}
	}
	if err := addUnitsVar(cw, timeDim, d.TimeUnits, d.Time); err != nil {
		return err
	}
	for _, v := range d.Variables {
		if err := addUnitsVar(cw, v.Name, v.Units, v.Values); err != nil {
			return err
		}
	}
	flags := make([]int8, len(d.Time))
	for _, i := range d.Gaps {
		if i >= 0 && i < len(flags) {
			flags[i] = 1
		}
	}
	gapAttrs, err := util.NewOrderedMap(
		[]string{"long_name", "flag_meanings"},
		map[string]any{
			"long_name":     "record follows a recording gap",
			"flag_meanings": "continuous after_gap",
		})
	if err != nil {
		return err
	}
	return addVar(cw, "gap", gapAttrs, flags)
}

// varAdder is implemented by the CDF writer.
type varAdder interface {
	AddVar(name string, vr api.Variable) error
}

func addUnitsVar(cw varAdder, name, units string, values []float64) error {
	attrs, err := util.NewOrderedMap([]string{"units"}, map[string]any{"units": units})
	if err != nil {
		return err
	}
	return addVar(cw, name, attrs, values)
}

func addVar(cw varAdder, name string, attrs api.AttributeMap, values any) error {
	err := cw.AddVar(name, api.Variable{
		Values:     values,
		Dimensions: []string{timeDim},
		Attributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("cannot add variable %q: %w", name, err)
	}
	return nil
}

func stringAttrs(m map[string]string) (api.AttributeMap, error) {
	keys := make([]string, 0, len(m))
	vals := make(map[string]any, len(m))
	for k, v := range m {
		keys = append(keys, k)
		vals[k] = v
	}
	sort.Strings(keys)
	return util.NewOrderedMap(keys, vals)
}
