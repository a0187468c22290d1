package dto

import (
	"fmt"
	"strings"
	"time"
)

const fechaLayout = "2006-01-02"

// Fecha es una fecha calendario sin componente horario ("2006-01-02" en el
// wire). Los formularios de lote y los filtros del historial la usan.
type Fecha struct {
	time.Time
}

func NuevaFecha(t time.Time) Fecha {
	return Fecha{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + f.Format(fechaLayout) + `"`), nil
}

func (f *Fecha) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		f.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(fechaLayout, s)
	if err != nil {
		return fmt.Errorf("fecha invalida %q (formato esperado %s)", s, fechaLayout)
	}
	f.Time = t
	return nil
}

// UnmarshalParam permite usar Fecha en query strings (binding de gin).
func (f *Fecha) UnmarshalParam(param string) error {
	if param == "" {
		f.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(fechaLayout, param)
	if err != nil {
		return fmt.Errorf("fecha invalida %q (formato esperado %s)", param, fechaLayout)
	}
	f.Time = t
	return nil
}

func (f Fecha) String() string {
	if f.IsZero() {
		return ""
	}
	return f.Format(fechaLayout)
}
