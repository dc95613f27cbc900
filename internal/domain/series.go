package domain

import (
	"sort"
	"time"
)

// Candle es un cierre diario de un símbolo.
type Candle struct {
	Date  time.Time
	Close float64
}

// Series es una secuencia de cierres diarios. Las estrategias la requieren
// normalizada: sin duplicados, ascendente por fecha, fechas a medianoche UTC.
type Series []Candle

// Day trunca un instante a medianoche UTC, la forma canónica de las fechas.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize devuelve una copia con fechas truncadas a medianoche UTC, sin
// duplicados (gana la última fila de cada fecha) y ordenada ascendente.
func (s Series) Normalize() Series {
	byDate := make(map[time.Time]float64, len(s))
	for _, c := range s {
		byDate[Day(c.Date)] = c.Close
	}

	out := make(Series, 0, len(byDate))
	for date, closePrice := range byDate {
		out = append(out, Candle{Date: date, Close: closePrice})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Clip devuelve la sub-serie dentro de [start, end], ambos extremos incluidos.
func (s Series) Clip(start, end time.Time) Series {
	out := make(Series, 0, len(s))
	for _, c := range s {
		if c.Date.Before(start) || c.Date.After(end) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Closes devuelve un índice fecha→cierre de la serie.
func (s Series) Closes() map[time.Time]float64 {
	m := make(map[time.Time]float64, len(s))
	for _, c := range s {
		m[c.Date] = c.Close
	}
	return m
}

// CommonDates devuelve las fechas presentes en todas las series, en orden
// ascendente. Una fecha en la que falta la cotización de cualquier serie se
// excluye por completo.
func CommonDates(series ...Series) []time.Time {
	if len(series) == 0 {
		return nil
	}

	counts := make(map[time.Time]int)
	for _, s := range series {
		for _, c := range s {
			counts[c.Date]++
		}
	}

	out := make([]time.Time, 0, len(counts))
	for date, n := range counts {
		if n == len(series) {
			out = append(out, date)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
