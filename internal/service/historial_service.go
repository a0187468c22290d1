package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/infra"
	"github.com/mattygrunge/planproduccion/internal/repository"
)

// HistorialService consulta el libro de producción: página filtrada con
// estadísticas, y exportaciones a CSV y PDF del conjunto filtrado completo.
type HistorialService interface {
	Listar(ctx context.Context, filter dto.HistorialFilter) (*dto.HistorialResponse, error)
	Estadisticas(ctx context.Context, filter dto.HistorialFilter) (dto.HistorialEstadisticas, error)
	ExportarCSV(ctx context.Context, filter dto.HistorialFilter) ([]byte, string, error)
	ExportarPDF(ctx context.Context, filter dto.HistorialFilter) (string, error)
}

type historialService struct {
	lotes       repository.LoteRepository
	storagePath string
}

func NewHistorialService(lotes repository.LoteRepository, storagePath string) HistorialService {
	return &historialService{lotes: lotes, storagePath: storagePath}
}

func filtrosAplicados(filter dto.HistorialFilter) map[string]string {
	aplicados := make(map[string]string)
	if filter.Search != "" {
		aplicados["search"] = filter.Search
	}
	if filter.ProductoID != nil {
		aplicados["producto_id"] = strconv.FormatUint(uint64(*filter.ProductoID), 10)
	}
	if filter.ClienteID != nil {
		aplicados["cliente_id"] = strconv.FormatUint(uint64(*filter.ClienteID), 10)
	}
	if filter.FechaDesde != nil && !filter.FechaDesde.IsZero() {
		aplicados["fecha_desde"] = filter.FechaDesde.String()
	}
	if filter.FechaHasta != nil && !filter.FechaHasta.IsZero() {
		aplicados["fecha_hasta"] = filter.FechaHasta.String()
	}
	if filter.NumeroLote != "" {
		aplicados["numero_lote"] = filter.NumeroLote
	}
	if filter.Activo != "" {
		aplicados["activo"] = filter.Activo
	}
	if filter.OrdenarPor != "" {
		aplicados["ordenar_por"] = filter.OrdenarPor
	}
	if filter.Orden != "" {
		aplicados["orden"] = filter.Orden
	}
	return aplicados
}

func (s *historialService) Listar(ctx context.Context, filter dto.HistorialFilter) (*dto.HistorialResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 || filter.Size > 100 {
		filter.Size = 20
	}

	lotes, total, err := s.lotes.Historial(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.lotes.HistorialEstadisticas(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LoteResponse, 0, len(lotes))
	for i := range lotes {
		items = append(items, *mapLote(&lotes[i]))
	}

	return &dto.HistorialResponse{
		Items:            items,
		Total:            total,
		Page:             filter.Page,
		Size:             filter.Size,
		Pages:            dto.Pages(total, filter.Size),
		Estadisticas:     stats,
		FiltrosAplicados: filtrosAplicados(filter),
	}, nil
}

func (s *historialService) Estadisticas(ctx context.Context, filter dto.HistorialFilter) (dto.HistorialEstadisticas, error) {
	return s.lotes.HistorialEstadisticas(ctx, filter)
}

// exportar trae el conjunto filtrado completo (sin paginar) aplanado.
func (s *historialService) exportar(ctx context.Context, filter dto.HistorialFilter) ([]dto.HistorialExport, dto.HistorialEstadisticas, error) {
	filter.Page = 1
	filter.Size = 100

	var items []dto.HistorialExport
	for {
		lotes, total, err := s.lotes.Historial(ctx, filter)
		if err != nil {
			return nil, dto.HistorialEstadisticas{}, err
		}
		for i := range lotes {
			l := &lotes[i]
			it := dto.HistorialExport{
				Codigo:           l.Codigo,
				NumeroLote:       l.NumeroLote,
				Pallets:          l.Pallets,
				Parciales:        l.Parciales,
				LitrosTotales:    l.LitrosTotales,
				FechaProduccion:  l.FechaProduccion,
				FechaVencimiento: l.FechaVencimiento,
			}
			if l.Producto != nil {
				it.Producto = l.Producto.Nombre
				if l.Producto.Cliente != nil {
					it.Cliente = l.Producto.Cliente.Nombre
				}
			}
			if l.Usuario != nil {
				it.Usuario = l.Usuario.Username
			}
			items = append(items, it)
		}
		if int64(filter.Page*filter.Size) >= total {
			break
		}
		filter.Page++
	}

	stats, err := s.lotes.HistorialEstadisticas(ctx, filter)
	if err != nil {
		return nil, dto.HistorialEstadisticas{}, err
	}
	return items, stats, nil
}

func (s *historialService) ExportarCSV(ctx context.Context, filter dto.HistorialFilter) ([]byte, string, error) {
	items, _, err := s.exportar(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	// UTF-8 BOM so Excel opens accented characters correctly
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	header := []string{"Código", "Número de Lote", "Producto", "Cliente", "Pallets", "Parciales", "Litros Totales", "Fecha Producción", "Fecha Vencimiento", "Usuario"}
	if err := w.Write(header); err != nil {
		return nil, "", err
	}

	for _, it := range items {
		venc := ""
		if it.FechaVencimiento != nil {
			venc = it.FechaVencimiento.Format("02/01/2006")
		}
		row := []string{
			it.Codigo,
			it.NumeroLote,
			it.Producto,
			it.Cliente,
			strconv.Itoa(it.Pallets),
			strconv.Itoa(it.Parciales),
			it.LitrosTotales.StringFixed(3),
			it.FechaProduccion.Format("02/01/2006"),
			venc,
			it.Usuario,
		}
		if err := w.Write(row); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("historial_lotes_%s.csv", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func (s *historialService) ExportarPDF(ctx context.Context, filter dto.HistorialFilter) (string, error) {
	items, stats, err := s.exportar(ctx, filter)
	if err != nil {
		return "", err
	}

	filtros := ""
	for k, v := range filtrosAplicados(filter) {
		if filtros != "" {
			filtros += "  "
		}
		filtros += k + "=" + v
	}

	return infra.GenerateHistorialPDF(items, stats, filtros, s.storagePath)
}
