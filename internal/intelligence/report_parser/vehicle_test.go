package report_parser

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVehicles_FullRecord(t *testing.T) {
	text := strings.Join([]string{
		"VEHICLES",
		"2019 Toyota Camry Silver",
		"VIN: 4T1B11HK5KU123456",
		"TX Plate ABC1234",
		"Registered: 1234 Main St, Dallas, TX 75201",
	}, "\n")

	vs := extractVehicles(text, DefaultMaxVehicles)
	require.Len(t, vs, 1)

	v := vs[0]
	assert.Equal(t, 2019, v.Year)
	assert.Equal(t, "Toyota", v.Make)
	assert.Equal(t, "Camry", v.Model)
	assert.Equal(t, "Silver", v.Color)
	assert.Equal(t, "4T1B11HK5KU123456", v.VIN)
	assert.Equal(t, "ABC1234", v.Plate)
	assert.Equal(t, "TX", v.State)
	assert.Equal(t, "1234 Main St, Dallas, TX 75201", v.RegisteredAddress)
}

func TestExtractVehicles_SplitsOnSecondVIN(t *testing.T) {
	vs := extractVehicles("VIN: 1HGCM82633A004352\nVIN: 2HGES16575H012345", DefaultMaxVehicles)
	require.Len(t, vs, 2)
	assert.Equal(t, "1HGCM82633A004352", vs[0].VIN)
	assert.Equal(t, "2HGES16575H012345", vs[1].VIN)
}

func TestExtractVehicles_SplitsOnSecondYearLine(t *testing.T) {
	vs := extractVehicles("2019 Toyota Camry\n2020 Honda Civic Blue", DefaultMaxVehicles)
	require.Len(t, vs, 2)
	assert.Equal(t, "Toyota", vs[0].Make)
	assert.Equal(t, 2020, vs[1].Year)
	assert.Equal(t, "Honda", vs[1].Make)
	assert.Equal(t, "Civic", vs[1].Model)
	assert.Equal(t, "Blue", vs[1].Color)
}

func TestExtractVehicles_LabeledFields(t *testing.T) {
	text := "Vehicle 1:\nYear: 2018\nMake: Chevy\nModel: Silverado 1500\nColor: Red\nPlate: XYZ9876\nPlate State: FL"
	vs := extractVehicles(text, DefaultMaxVehicles)
	require.Len(t, vs, 1)
	v := vs[0]
	assert.Equal(t, 2018, v.Year)
	assert.Equal(t, "Chevrolet", v.Make)
	assert.Equal(t, "Silverado 1500", v.Model)
	assert.Equal(t, "Red", v.Color)
	assert.Equal(t, "XYZ9876", v.Plate)
	assert.Equal(t, "FL", v.State)
}

func TestExtractVehicles_RequiresIdentifyingFields(t *testing.T) {
	vs := extractVehicles("Some vehicle note\n\nToyota mentioned without a year", DefaultMaxVehicles)
	assert.NotNil(t, vs)
	assert.Empty(t, vs)
}

func TestExtractVehicles_Cap(t *testing.T) {
	var lines []string
	for y := 2000; y < 2015; y++ {
		lines = append(lines, strconv.Itoa(y)+" Ford F-150")
	}
	vs := extractVehicles(strings.Join(lines, "\n"), DefaultMaxVehicles)
	assert.Len(t, vs, DefaultMaxVehicles)
	assert.Equal(t, "F-150", vs[0].Model)
}

func TestFindYear(t *testing.T) {
	assert.Equal(t, 2018, findYear("2018 Ford F-150"))
	assert.Equal(t, 0, findYear("Registered 03/2021"))
	assert.Equal(t, 0, findYear("2021-05-01"))
	assert.Equal(t, 0, findYear("Built 1850"))
}

func TestFindVIN(t *testing.T) {
	assert.Equal(t, "1HGCM82633A004352", findVIN("vin 1hgcm82633a004352"))
	assert.Equal(t, "", findVIN("ABCDEFGHJKLMNPRST"))
	assert.Equal(t, "", findVIN("12345678901234567"))
}

//Personal.AI order the ending
