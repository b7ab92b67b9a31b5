package kestrel

// Record is a single row of a Kestrel weather meter log.
type Record struct {
	// Seconds elapsed since the meter epoch.
	Timestamp float64

	// Metrics, in file column order.
	WindSpeed        float64
	Temperature      float64 // °F
	WindChill        float64 // °F
	RelativeHumidity float64 // %
	HeatIndex        float64 // °F
	Dewpoint         float64 // °F
	WetBulb          float64 // °F
	StationPressure  float64 // hPa
	Altimeter        float64 // hPa
	DensityAltitude  float64 // ft
}

// numColumns is the number of comma separated values in every data row.
const numColumns = 11

// columnNames lists the file columns in order.
var columnNames = [numColumns]string{
	"times", "wspd", "temp", "wchl", "relh", "heat", "dewp", "wetb", "pres", "alti", "dalt",
}

func recordFromValues(v [numColumns]float64) Record {
	return Record{
		Timestamp:        v[0],
		WindSpeed:        v[1],
		Temperature:      v[2],
		WindChill:        v[3],
		RelativeHumidity: v[4],
		HeatIndex:        v[5],
		Dewpoint:         v[6],
		WetBulb:          v[7],
		StationPressure:  v[8],
		Altimeter:        v[9],
		DensityAltitude:  v[10],
	}
}
