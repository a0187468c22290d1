package dto

// ListQuery son los parámetros de paginación/búsqueda comunes a todos los
// listados. Activo: "true" (default), "false" o "all".
type ListQuery struct {
	Page   int    `form:"page"`
	Size   int    `form:"size"`
	Search string `form:"search"`
	Activo string `form:"activo"`
}

// Normalizar acota página y tamaño a los rangos aceptados.
func (q *ListQuery) Normalizar() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 10
	}
	if q.Size > 100 {
		q.Size = 100
	}
}

// Pages calcula el total de páginas para un total de filas dado.
func Pages(total int64, size int) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}
