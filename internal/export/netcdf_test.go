package export

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf"
)

func TestWriteNetCDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eclipse.nc")
	d := &Dataset{
		TimeUnits: "seconds since 2000-01-01 00:00:00",
		Time:      []float64{0, 2, 4, 900},
		Variables: []Variable{
			{Name: "temperature", Units: "degF", Values: []float64{88.1, 88.0, 87.9, 80.2}},
			{Name: "station_pressure", Units: "hPa", Values: []float64{993.6, 993.6, 993.5, 993.9}},
		},
		Gaps:   []int{3},
		Global: map[string]string{"station": "Vonore, TN, USA"},
	}
	if err := WriteNetCDF(path, d); err != nil {
		t.Fatalf("WriteNetCDF: %v", err)
	}

	nc, err := netcdf.Open(path)
	if err != nil {
		t.Fatalf("netcdf.Open: %v", err)
	}
	defer nc.Close()

	v, err := nc.GetVariable("temperature")
	if err != nil {
		t.Fatalf("GetVariable: %v", err)
	}
	if got := v.Values.([]float64); !reflect.DeepEqual(got, d.Variables[0].Values) {
		t.Errorf("temperature = %v; want %v", got, d.Variables[0].Values)
	}
	if units, ok := v.Attributes.Get("units"); !ok || units != "degF" {
		t.Errorf("units = %v, %v; want degF", units, ok)
	}

	g, err := nc.GetVariable("gap")
	if err != nil {
		t.Fatalf("GetVariable(gap): %v", err)
	}
	if got, want := g.Values.([]int8), []int8{0, 0, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("gap = %v; want %v", got, want)
	}
}

func TestWriteNetCDFLengthMismatch(t *testing.T) {
	d := &Dataset{
		Time:      []float64{0, 1},
		Variables: []Variable{{Name: "t", Values: []float64{1}}},
	}
	if err := WriteNetCDF(filepath.Join(t.TempDir(), "x.nc"), d); err == nil {
		t.Fatal("WriteNetCDF succeeded; want error")
	}
}
