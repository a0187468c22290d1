package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Prefijos de código por entidad.
const (
	PrefijoSector      = "SC"
	PrefijoLinea       = "LN"
	PrefijoProducto    = "PD"
	PrefijoCliente     = "CL"
	PrefijoEstadoLinea = "EL"
	PrefijoLote        = "LT"
	PrefijoUsuario     = "US"
	PrefijoRol         = "RL"
)

// nextCodigo genera el siguiente código correlativo PREFIJO+AA+NNNN para la
// tabla dada, reiniciando la secuencia cada año. La búsqueda del máximo usa
// el índice único de la columna codigo.
func nextCodigo(db *gorm.DB, tabla, prefijo string) (string, error) {
	anio := time.Now().Format("06")
	base := prefijo + anio

	var ultimo string
	err := db.Table(tabla).
		Select("codigo").
		Where("codigo LIKE ?", base+"%").
		Order("codigo DESC").
		Limit(1).
		Scan(&ultimo).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if ultimo != "" {
		n, convErr := strconv.Atoi(strings.TrimPrefix(ultimo, base))
		if convErr == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", base, seq), nil
}
