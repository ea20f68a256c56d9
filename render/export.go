package render

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/sartorproj/footfall/aggregate"
	"github.com/sartorproj/footfall/arima"
	"github.com/sartorproj/footfall/pipeline"
	"github.com/sartorproj/footfall/records"
	"github.com/sartorproj/footfall/timeseries"
)

// Number is a float64 that encodes non-finite values as JSON null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// Point is one dated value of the JSON document.
type Point struct {
	Date  string `json:"date"`
	Value Number `json:"value"`
}

// ForecastPoint is one forecast day with its prediction interval.
type ForecastPoint struct {
	Date  string `json:"date"`
	Value Number `json:"value"`
	Lower Number `json:"lower"`
	Upper Number `json:"upper"`
}

// Model describes the fitted model in the JSON document.
type Model struct {
	Order        string   `json:"order"`
	AR           []Number `json:"ar"`
	MA           []Number `json:"ma"`
	Intercept    Number   `json:"intercept"`
	Sigma2       Number   `json:"sigma2"`
	LogLik       Number   `json:"log_likelihood"`
	AIC          Number   `json:"aic"`
	AICc         Number   `json:"aicc"`
	BIC          Number   `json:"bic"`
	Iterations   int      `json:"iterations"`
	LjungBoxP    *Number  `json:"ljung_box_p,omitempty"`
	DurbinWatson *Number  `json:"durbin_watson,omitempty"`
	KPSSP        *Number  `json:"kpss_p,omitempty"`
}

// Document is the JSON form of a pipeline result.
type Document struct {
	Actual     []Point               `json:"actual"`
	Fitted     []Point               `json:"fitted"`
	Forecast   []ForecastPoint       `json:"forecast"`
	Confidence Number                `json:"confidence"`
	FilledDays int                   `json:"filled_days"`
	Report     records.Report        `json:"records"`
	Model      *Model                `json:"model,omitempty"`
	Breakdowns *aggregate.Breakdowns `json:"breakdowns,omitempty"`
}

// NewDocument converts result into its JSON form.
func NewDocument(result *pipeline.Result) *Document {
	doc := &Document{
		Actual:     points(result.Actual),
		Fitted:     points(result.Fitted),
		Confidence: Number(result.Confidence),
		FilledDays: result.FilledDays,
		Report:     result.Report,
		Model:      model(result.Summary),
		Breakdowns: result.Breakdowns,
	}
	for i, ts := range result.Forecast.Timestamps {
		doc.Forecast = append(doc.Forecast, ForecastPoint{
			Date:  ts.Format(timeseries.DateFormat),
			Value: Number(result.Forecast.Values[i]),
			Lower: Number(result.Lower.Values[i]),
			Upper: Number(result.Upper.Values[i]),
		})
	}
	return doc
}

// WriteJSON writes result as an indented JSON document.
func WriteJSON(w io.Writer, result *pipeline.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewDocument(result))
}

// WriteCSV writes the actual, fitted, forecast, lower and upper series in long
// format.
func WriteCSV(w io.Writer, result *pipeline.Result) error {
	return timeseries.WriteCSV(w, result.Actual, result.Fitted, result.Forecast, result.Lower, result.Upper)
}

func points(s *timeseries.Series) []Point {
	if s == nil {
		return nil
	}
	out := make([]Point, 0, s.Len())
	for _, p := range s.Points() {
		out = append(out, Point{Date: p.Date.Format(timeseries.DateFormat), Value: Number(p.Value)})
	}
	return out
}

func numbers(values []float64) []Number {
	out := make([]Number, len(values))
	for i, v := range values {
		out[i] = Number(v)
	}
	return out
}

func ptr(v float64) *Number {
	n := Number(v)
	return &n
}

func model(s *arima.Summary) *Model {
	if s == nil {
		return nil
	}
	m := &Model{
		Order:      s.Order.String(),
		AR:         numbers(s.ARCoeffs),
		MA:         numbers(s.MACoeffs),
		Intercept:  Number(s.Intercept),
		Sigma2:     Number(s.Variance),
		LogLik:     Number(s.LogLik),
		AIC:        Number(s.AIC),
		AICc:       Number(s.AICc),
		BIC:        Number(s.BIC),
		Iterations: s.Iterations,
	}
	if s.LjungBox != nil {
		m.LjungBoxP = ptr(s.LjungBox.PValue)
	}
	if s.DurbinWatson != nil {
		m.DurbinWatson = ptr(s.DurbinWatson.Statistic)
	}
	if s.KPSS != nil {
		m.KPSSP = ptr(s.KPSS.PValue)
	}
	return m
}

// dates formats timestamps with DateFormat.
func dates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(timeseries.DateFormat)
	}
	return out
}
