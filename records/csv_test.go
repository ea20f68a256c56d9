package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = `id;location_id;sensing_date;hour;direction_1;direction_2;pedestrian_count;sensor_name;location
1;4;2024-01-01;9;30;25;55;Bou292_T;Bourke Street Mall
2;4;2024-01-01;10;40;;n/a;Bou292_T;Bourke Street Mall
3;5;2024-01-02;;1;2;3;Swa295_T;"Town Hall; West"
`

func TestReadCSV(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(export), nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, RawRecord{
		ID:              "1",
		LocationID:      "4",
		SensingDate:     "2024-01-01",
		Hour:            "9",
		Direction1:      "30",
		Direction2:      "25",
		PedestrianCount: "55",
		SensorName:      "Bou292_T",
		Location:        "Bourke Street Mall",
	}, got[0])
	assert.Equal(t, "n/a", got[1].PedestrianCount)
	assert.Equal(t, "", got[2].Hour)
	assert.Equal(t, "Town Hall; West", got[2].Location)

	clean, report := SanitizeWithReport(got)
	assert.Len(t, clean, 2)
	assert.Equal(t, 1, report.InvalidCount)
	assert.Equal(t, 1, report.UnknownHour)
}

func TestReadCSVHeaderVariants(t *testing.T) {
	t.Run("ReorderedAndCased", func(t *testing.T) {
		in := "\ufeffPedestrian_Count,Sensing_Date\n12,2024-05-01\n"
		got, err := ReadCSV(strings.NewReader(in), &CSVOptions{Delimiter: ',', HasHeader: true})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "12", got[0].PedestrianCount)
		assert.Equal(t, "2024-05-01", got[0].SensingDate)
	})

	t.Run("Rename", func(t *testing.T) {
		in := "Date;Count;HourDay\n2024-05-01;12;4\n"
		opts := DefaultCSVOptions()
		opts.Rename = map[string]string{"date": ColumnSensingDate, "count": ColumnPedestrianCount, "hourday": ColumnHour}
		got, err := ReadCSV(strings.NewReader(in), opts)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "4", got[0].Hour)
	})

	t.Run("Positional", func(t *testing.T) {
		in := "a;b;c;d;e;f;g;h;i\n1;2;2024-05-01;3;4;5;6;S;L\n"
		opts := DefaultCSVOptions()
		opts.Positional = true
		got, err := ReadCSV(strings.NewReader(in), opts)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "6", got[0].PedestrianCount)
		assert.Equal(t, "L", got[0].Location)
	})

	t.Run("NoHeader", func(t *testing.T) {
		in := "1;2;2024-05-01;3;4;5;6\n"
		got, err := ReadCSV(strings.NewReader(in), &CSVOptions{Delimiter: ';'})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "6", got[0].PedestrianCount)
		assert.Equal(t, "", got[0].SensorName)
	})

	t.Run("SkipRows", func(t *testing.T) {
		in := "# exported\nsensing_date;pedestrian_count\n2024-05-01;9\n"
		opts := DefaultCSVOptions()
		opts.SkipRows = 1
		got, err := ReadCSV(strings.NewReader(in), opts)
		require.NoError(t, err)
		require.Len(t, got, 1)
	})
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("sensing_date;hour\n2024-01-01;1\n"), nil)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader("sensing_date;pedestrian_count\n\"2024-01-01;1\n"), nil)
	assert.Error(t, err)

	got, err := ReadCSV(strings.NewReader(""), nil)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o644))

	got, err := LoadCSV(path, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}
