// Package csvdata carga y guarda el histórico de cierres diarios por
// símbolo como archivos CSV con layout <dir>/<SYMBOL>/<SYMBOL>.csv.
package csvdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AlgoRichLabs/backtest/internal/domain"
)

const dateLayout = "2006-01-02"

// Loader implementa ports.HistoryProvider sobre un directorio CSV local.
type Loader struct {
	dir string
}

// NewLoader crea un Loader anclado al directorio de datos dado.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadHistory lee <dir>/<SYMBOL>/<SYMBOL>.csv y devuelve su serie
// normalizada. El archivo necesita una fila header con columnas Date y
// Close; el resto de columnas se ignora.
func (l *Loader) LoadHistory(_ context.Context, symbol string) (domain.Series, error) {
	path := filepath.Join(l.dir, symbol, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvdata.LoadHistory: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // las columnas varían según el proveedor de datos

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csvdata.LoadHistory: read header of %q: %w", path, err)
	}
	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("csvdata.LoadHistory: %q: header %v lacks Date/Close columns", path, header)
	}

	var series domain.Series
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvdata.LoadHistory: %q: %w", path, err)
		}
		line++
		if len(record) <= dateCol || len(record) <= closeCol {
			return nil, fmt.Errorf("csvdata.LoadHistory: %q line %d: short row", path, line)
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(record[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("csvdata.LoadHistory: %q line %d: %w", path, line, err)
		}
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(record[closeCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("csvdata.LoadHistory: %q line %d: %w", path, line, err)
		}

		series = append(series, domain.Candle{Date: date, Close: closePrice})
	}

	return series.Normalize(), nil
}

// Save escribe una serie en el layout que lee LoadHistory, creando el
// directorio del símbolo si hace falta.
func Save(dir, symbol string, series domain.Series) error {
	symbolDir := filepath.Join(dir, symbol)
	if err := os.MkdirAll(symbolDir, 0o755); err != nil {
		return fmt.Errorf("csvdata.Save: %w", err)
	}

	path := filepath.Join(symbolDir, symbol+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvdata.Save: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Close"}); err != nil {
		return fmt.Errorf("csvdata.Save: %w", err)
	}
	for _, c := range series {
		row := []string{c.Date.Format(dateLayout), strconv.FormatFloat(c.Close, 'f', -1, 64)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csvdata.Save: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csvdata.Save: flush %q: %w", path, err)
	}
	return nil
}
