package writer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/stretchr/testify/suite"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func sampleMonthly() types.Series {
	return types.Series{
		Name:      "fedfunds",
		Frequency: types.FrequencyMonthly,
		Observations: []types.Observation{
			types.NewObservation(day(2020, 1, 1), 1.55),
			types.MissingObservation(day(2020, 2, 1)),
			types.NewObservation(day(2020, 3, 1), 0.65),
		},
	}
}

type CSVWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestCSVWriterSuite(t *testing.T) {
	suite.Run(t, new(CSVWriterTestSuite))
}

func (suite *CSVWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *CSVWriterTestSuite) TestColumnsFor() {
	suite.Equal(Columns{Index: "date", Value: "fedfunds"}, ColumnsFor(sampleMonthly()))
	suite.Equal(Columns{Index: "quarter", Value: "fedfunds"}, ColumnsFor(types.Series{Name: "fedfunds", Frequency: types.FrequencyQuarterly}))
}

func (suite *CSVWriterTestSuite) TestWriteSeries() {
	outputPath := filepath.Join(suite.tempDir, "nested", "us_fedfunds_monthly.csv")
	series := sampleMonthly()

	path, err := WriteSeries(NewCSVWriter(outputPath, ColumnsFor(series)), series)
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)

	content, err := os.ReadFile(outputPath)
	suite.Require().NoError(err)
	suite.Equal("date,fedfunds\n2020-01-01,1.55\n2020-02-01,\n2020-03-01,0.65\n", string(content))

	entries, err := os.ReadDir(filepath.Dir(outputPath))
	suite.Require().NoError(err)
	suite.Len(entries, 1, "temporary file should have been renamed")
}

func (suite *CSVWriterTestSuite) TestWriteEmptySeries() {
	outputPath := filepath.Join(suite.tempDir, "empty.csv")
	series := types.Series{Name: "fedfunds", Frequency: types.FrequencyQuarterly}

	_, err := WriteSeries(NewCSVWriter(outputPath, ColumnsFor(series)), series)
	suite.Require().NoError(err)

	content, err := os.ReadFile(outputPath)
	suite.Require().NoError(err)
	suite.Equal("quarter,fedfunds\n", string(content))
}

func (suite *CSVWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewCSVWriter(filepath.Join(suite.tempDir, "x.csv"), Columns{Index: "date", Value: "v"})

	err := writer.Write(types.NewObservation(day(2020, 1, 1), 1))
	suite.Error(err)
	suite.Contains(err.Error(), "not initialized")

	_, err = writer.Finalize()
	suite.Error(err)
}

func (suite *CSVWriterTestSuite) TestCloseWithoutFinalizeLeavesNothing() {
	outputPath := filepath.Join(suite.tempDir, "abandoned.csv")
	writer := NewCSVWriter(outputPath, Columns{Index: "date", Value: "fedfunds"})

	suite.Require().NoError(writer.Initialize())
	suite.Require().NoError(writer.Write(types.NewObservation(day(2020, 1, 1), 1.55)))
	suite.Require().NoError(writer.Close())

	_, err := os.Stat(outputPath)
	suite.True(os.IsNotExist(err))

	entries, err := os.ReadDir(suite.tempDir)
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *CSVWriterTestSuite) TestInitializeFailsOnUnwritableDirectory() {
	blocker := filepath.Join(suite.tempDir, "file")
	suite.Require().NoError(os.WriteFile(blocker, []byte("x"), 0o644))

	writer := NewCSVWriter(filepath.Join(blocker, "out.csv"), Columns{Index: "date", Value: "fedfunds"})
	err := writer.Initialize()
	suite.Error(err)
	suite.Contains(err.Error(), "failed to create output directory")
}

func (suite *CSVWriterTestSuite) TestGetOutputPath() {
	writer := NewCSVWriter("data/out.csv", Columns{})
	suite.Equal("data/out.csv", writer.GetOutputPath())
}

func (suite *CSVWriterTestSuite) TestNewSeriesWriter() {
	csvWriter, err := NewSeriesWriter(WriterCSV, "a.csv", Columns{})
	suite.NoError(err)
	suite.IsType(&CSVWriter{}, csvWriter)

	duckWriter, err := NewSeriesWriter(WriterDuckDB, "a.parquet", Columns{})
	suite.NoError(err)
	suite.IsType(&DuckDBWriter{}, duckWriter)

	_, err = NewSeriesWriter(WriterType("xlsx"), "a.xlsx", Columns{})
	suite.Error(err)
	suite.Contains(err.Error(), "unsupported writer type")
}

func (suite *CSVWriterTestSuite) TestExtension() {
	suite.Equal(".csv", WriterCSV.Extension())
	suite.Equal(".parquet", WriterDuckDB.Extension())
}
