package service

// Stubs en memoria de los repositorios, compartidos por los tests del
// paquete. Implementan la semántica mínima que los services ejercitan.

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mattygrunge/planproduccion/internal/dto"
	"github.com/mattygrunge/planproduccion/internal/model"
)

// ─── Auditoría ───────────────────────────────────────────────────────────────

type stubAuditRepo struct {
	logs []model.AuditLog
}

func (r *stubAuditRepo) Create(_ context.Context, a *model.AuditLog) error {
	a.ID = uint(len(r.logs) + 1)
	r.logs = append(r.logs, *a)
	return nil
}

func (r *stubAuditRepo) FindByID(_ context.Context, id uint) (*model.AuditLog, error) {
	for i := range r.logs {
		if r.logs[i].ID == id {
			return &r.logs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAuditRepo) List(_ context.Context, _ dto.AuditoriaFilter) ([]model.AuditLog, int64, error) {
	return r.logs, int64(len(r.logs)), nil
}

func (r *stubAuditRepo) Estadisticas(_ context.Context) (dto.AuditoriaEstadisticas, error) {
	stats := dto.AuditoriaEstadisticas{
		TotalRegistros: int64(len(r.logs)),
		PorAccion:      map[string]int64{},
		PorEntidad:     map[string]int64{},
	}
	porUsuario := map[string]int64{}
	for _, l := range r.logs {
		stats.PorAccion[l.Accion]++
		stats.PorEntidad[l.Entidad]++
		porUsuario[l.UsuarioUsername]++
	}
	for u, n := range porUsuario {
		stats.TopUsuarios = append(stats.TopUsuarios, dto.UsuarioActividad{Username: u, Registros: n})
	}
	sort.Slice(stats.TopUsuarios, func(i, j int) bool {
		return stats.TopUsuarios[i].Registros > stats.TopUsuarios[j].Registros
	})
	return stats, nil
}

// ─── Lotes ───────────────────────────────────────────────────────────────────

type stubLoteRepo struct {
	lotes  []model.Lote
	nextID uint
}

func (r *stubLoteRepo) Create(_ context.Context, l *model.Lote) error {
	r.nextID++
	l.ID = r.nextID
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.lotes = append(r.lotes, *l)
	return nil
}

func (r *stubLoteRepo) FindByID(_ context.Context, id uint) (*model.Lote, error) {
	for i := range r.lotes {
		if r.lotes[i].ID == id {
			l := r.lotes[i]
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLoteRepo) List(_ context.Context, filter dto.LoteFilter) ([]model.Lote, int64, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if filter.ProductoID != nil && l.ProductoID != *filter.ProductoID {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *stubLoteRepo) FindUltimoByProducto(_ context.Context, productoID uint) (*model.Lote, error) {
	var activos []model.Lote
	for _, l := range r.lotes {
		if l.ProductoID == productoID && l.Activo {
			activos = append(activos, l)
		}
	}
	if len(activos) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(activos, func(i, j int) bool {
		if !activos[i].FechaProduccion.Equal(activos[j].FechaProduccion) {
			return activos[i].FechaProduccion.After(activos[j].FechaProduccion)
		}
		return activos[i].ID > activos[j].ID
	})
	l := activos[0]
	return &l, nil
}

func (r *stubLoteRepo) ExisteNumero(_ context.Context, productoID uint, numeroLote string, excluirID uint) (bool, error) {
	for _, l := range r.lotes {
		if l.ProductoID == productoID && l.NumeroLote == numeroLote && l.Activo && l.ID != excluirID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLoteRepo) Historial(_ context.Context, filter dto.HistorialFilter) ([]model.Lote, int64, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if !l.Activo && filter.Activo != "all" && filter.Activo != "false" {
			continue
		}
		if filter.ProductoID != nil && l.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Search != "" && !strings.Contains(l.NumeroLote, filter.Search) {
			continue
		}
		if filter.NumeroLote != "" && !strings.Contains(l.NumeroLote, filter.NumeroLote) {
			continue
		}
		out = append(out, l)
	}
	total := int64(len(out))
	// Paginación simple
	start := (filter.Page - 1) * filter.Size
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + filter.Size
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *stubLoteRepo) HistorialEstadisticas(_ context.Context, filter dto.HistorialFilter) (dto.HistorialEstadisticas, error) {
	lotes, _, _ := r.Historial(context.Background(), dto.HistorialFilter{Page: 1, Size: len(r.lotes) + 1, ProductoID: filter.ProductoID, Activo: filter.Activo})
	stats := dto.HistorialEstadisticas{}
	productos := map[uint]bool{}
	for _, l := range lotes {
		stats.TotalLotes++
		stats.TotalLitros = stats.TotalLitros.Add(l.LitrosTotales)
		stats.TotalPallets += int64(l.Pallets)
		productos[l.ProductoID] = true
	}
	stats.ProductosDistintos = int64(len(productos))
	return stats, nil
}

func (r *stubLoteRepo) FindPorVencer(_ context.Context, hoy time.Time, dias int) ([]model.Lote, error) {
	limite := hoy.AddDate(0, 0, dias)
	var out []model.Lote
	for _, l := range r.lotes {
		if l.Activo && l.FechaVencimiento != nil && !l.FechaVencimiento.Before(hoy) && !l.FechaVencimiento.After(limite) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubLoteRepo) Update(_ context.Context, l *model.Lote) error {
	for i := range r.lotes {
		if r.lotes[i].ID == l.ID {
			r.lotes[i] = *l
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubLoteRepo) SoftDelete(_ context.Context, id uint) error    { return r.setActivo(id, false) }
func (r *stubLoteRepo) Reactivar(_ context.Context, id uint) error    { return r.setActivo(id, true) }
func (r *stubLoteRepo) NextCodigo(_ context.Context) (string, error)  { return "LT260001", nil }

func (r *stubLoteRepo) setActivo(id uint, activo bool) error {
	for i := range r.lotes {
		if r.lotes[i].ID == id {
			r.lotes[i].Activo = activo
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ─── Productos ───────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos []model.Producto
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	p.ID = uint(len(r.productos) + 1)
	r.productos = append(r.productos, *p)
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uint) (*model.Producto, error) {
	for i := range r.productos {
		if r.productos[i].ID == id {
			p := r.productos[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	return r.productos, int64(len(r.productos)), nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	for i := range r.productos {
		if r.productos[i].ID == p.ID {
			r.productos[i] = *p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uint) error   { return nil }
func (r *stubProductoRepo) Reactivar(_ context.Context, id uint) error    { return nil }
func (r *stubProductoRepo) NextCodigo(_ context.Context) (string, error)  { return "PD260001", nil }
func (r *stubProductoRepo) CountLotes(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

// ─── Estados de línea ────────────────────────────────────────────────────────

type stubEstadoLineaRepo struct {
	estados        []model.EstadoLinea
	nextID         uint
	lotesAsociados int64
}

func (r *stubEstadoLineaRepo) Create(_ context.Context, e *model.EstadoLinea) error {
	r.nextID++
	e.ID = r.nextID
	r.estados = append(r.estados, *e)
	return nil
}

func (r *stubEstadoLineaRepo) FindByID(_ context.Context, id uint) (*model.EstadoLinea, error) {
	for i := range r.estados {
		if r.estados[i].ID == id {
			e := r.estados[i]
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEstadoLineaRepo) List(_ context.Context, _ dto.EstadoLineaFilter) ([]model.EstadoLinea, int64, error) {
	return r.estados, int64(len(r.estados)), nil
}

func (r *stubEstadoLineaRepo) FindDelDia(_ context.Context, desde, hasta time.Time) ([]model.EstadoLinea, error) {
	var out []model.EstadoLinea
	for _, e := range r.estados {
		if !e.Activo {
			continue
		}
		if e.FechaHoraInicio.After(hasta) {
			continue
		}
		if e.FechaHoraFin != nil && e.FechaHoraFin.Before(desde) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaHoraInicio.Before(out[j].FechaHoraInicio) })
	return out, nil
}

func (r *stubEstadoLineaRepo) FindAbiertoByLinea(_ context.Context, lineaID uint) (*model.EstadoLinea, error) {
	for i := range r.estados {
		e := r.estados[i]
		if e.LineaID == lineaID && e.Activo && e.FechaHoraFin == nil {
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEstadoLineaRepo) Update(_ context.Context, e *model.EstadoLinea) error {
	for i := range r.estados {
		if r.estados[i].ID == e.ID {
			r.estados[i] = *e
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubEstadoLineaRepo) SoftDelete(_ context.Context, id uint) error {
	for i := range r.estados {
		if r.estados[i].ID == id {
			r.estados[i].Activo = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubEstadoLineaRepo) Reactivar(_ context.Context, id uint) error {
	for i := range r.estados {
		if r.estados[i].ID == id {
			r.estados[i].Activo = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubEstadoLineaRepo) NextCodigo(_ context.Context) (string, error) { return "EL260001", nil }

func (r *stubEstadoLineaRepo) CountLotes(_ context.Context, estadoLineaID uint) (int64, error) {
	return r.lotesAsociados, nil
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users []model.User
	roles []model.Role
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uint(len(r.users) + 1)
	r.users = append(r.users, *u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, _ dto.ListQuery) ([]model.User, int64, error) {
	return r.users, int64(len(r.users)), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = *u
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uint) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].IsActive = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Reactivar(_ context.Context, id uint) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].IsActive = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubUserRepo) NextCodigo(_ context.Context) (string, error) { return "US000002", nil }

func (r *stubUserRepo) FindRoleByID(_ context.Context, id uint) (*model.Role, error) {
	for i := range r.roles {
		if r.roles[i].ID == id {
			role := r.roles[i]
			return &role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindRoleByName(_ context.Context, name string) (*model.Role, error) {
	for i := range r.roles {
		if r.roles[i].Name == name {
			role := r.roles[i]
			return &role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ListRoles(_ context.Context) ([]model.Role, error) {
	return r.roles, nil
}

func (r *stubUserRepo) CreateRole(_ context.Context, role *model.Role) error {
	role.ID = uint(len(r.roles) + 1)
	r.roles = append(r.roles, *role)
	return nil
}

// ─── Sectores y líneas ───────────────────────────────────────────────────────

type stubSectorRepo struct {
	sectores      []model.Sector
	lineasActivas int64
}

func (r *stubSectorRepo) Create(_ context.Context, s *model.Sector) error {
	s.ID = uint(len(r.sectores) + 1)
	r.sectores = append(r.sectores, *s)
	return nil
}

func (r *stubSectorRepo) FindByID(_ context.Context, id uint) (*model.Sector, error) {
	for i := range r.sectores {
		if r.sectores[i].ID == id {
			s := r.sectores[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSectorRepo) FindByNombre(_ context.Context, nombre string) (*model.Sector, error) {
	for i := range r.sectores {
		if strings.EqualFold(r.sectores[i].Nombre, nombre) {
			s := r.sectores[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSectorRepo) List(_ context.Context, _ dto.ListQuery) ([]model.Sector, int64, error) {
	return r.sectores, int64(len(r.sectores)), nil
}

func (r *stubSectorRepo) ListActivos(_ context.Context) ([]model.Sector, error) {
	var out []model.Sector
	for _, s := range r.sectores {
		if s.Activo {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSectorRepo) Update(_ context.Context, s *model.Sector) error {
	for i := range r.sectores {
		if r.sectores[i].ID == s.ID {
			r.sectores[i] = *s
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSectorRepo) SoftDelete(_ context.Context, id uint) error {
	for i := range r.sectores {
		if r.sectores[i].ID == id {
			r.sectores[i].Activo = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSectorRepo) Reactivar(_ context.Context, id uint) error {
	for i := range r.sectores {
		if r.sectores[i].ID == id {
			r.sectores[i].Activo = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSectorRepo) NextCodigo(_ context.Context) (string, error) { return "SC260001", nil }

func (r *stubSectorRepo) CountLineasActivas(_ context.Context, sectorID uint) (int64, error) {
	return r.lineasActivas, nil
}

type stubLineaRepo struct {
	lineas []model.Linea
}

func (r *stubLineaRepo) Create(_ context.Context, l *model.Linea) error {
	l.ID = uint(len(r.lineas) + 1)
	r.lineas = append(r.lineas, *l)
	return nil
}

func (r *stubLineaRepo) FindByID(_ context.Context, id uint) (*model.Linea, error) {
	for i := range r.lineas {
		if r.lineas[i].ID == id {
			l := r.lineas[i]
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLineaRepo) List(_ context.Context, _ dto.LineaFilter) ([]model.Linea, int64, error) {
	return r.lineas, int64(len(r.lineas)), nil
}

func (r *stubLineaRepo) ListActivasBySector(_ context.Context, sectorID uint) ([]model.Linea, error) {
	var out []model.Linea
	for _, l := range r.lineas {
		if l.SectorID == sectorID && l.Activo {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubLineaRepo) Update(_ context.Context, l *model.Linea) error {
	for i := range r.lineas {
		if r.lineas[i].ID == l.ID {
			r.lineas[i] = *l
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubLineaRepo) SoftDelete(_ context.Context, id uint) error {
	for i := range r.lineas {
		if r.lineas[i].ID == id {
			r.lineas[i].Activo = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubLineaRepo) Reactivar(_ context.Context, id uint) error {
	for i := range r.lineas {
		if r.lineas[i].ID == id {
			r.lineas[i].Activo = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubLineaRepo) NextCodigo(_ context.Context) (string, error) { return "LN260001", nil }
