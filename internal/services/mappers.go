package services

import (
	"time"

	"staffing-system/internal/dto"
	"staffing-system/internal/entities"
	"staffing-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// formatNullTime is the spreadsheet rendering: local wall time, blank when
// unset.
func formatNullTime(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Local().Format("2006-01-02 15:04")
}

func toAsignacionDTO(a entities.Asignacion) dto.AsignacionDTO {
	return dto.AsignacionDTO{
		CamareroID:  a.CamareroID,
		Nombre:      a.Nombre,
		Numero:      a.Numero,
		Estado:      string(a.Estado),
		Turno:       a.Turno,
		HoraEntrada: a.HoraEntrada,
		HoraSalida:  a.HoraSalida,
	}
}

func toAsignacionDTOs(list []entities.Asignacion) []dto.AsignacionDTO {
	out := make([]dto.AsignacionDTO, 0, len(list))
	for _, a := range list {
		out = append(out, toAsignacionDTO(a))
	}
	return out
}

func toPedidoDTO(p *entities.Pedido) *dto.PedidoDTO {
	turnos := make([]dto.TurnoDTO, 0, len(p.Turnos))
	for _, t := range p.Turnos {
		turnos = append(turnos, dto.TurnoDTO{
			Numero:     t.Numero,
			Camareros:  t.Camareros,
			HoraInicio: t.HoraInicio,
			HoraFin:    t.HoraFin,
		})
	}

	return &dto.PedidoDTO{
		ID:            p.ID,
		Cliente:       p.Cliente,
		ClienteID:     p.ClienteID,
		CoordinadorID: p.CoordinadorID,
		Lugar:         p.Lugar,
		FechaEvento:   p.FechaEvento,
		Turnos:        turnos,
		Catering:      p.Catering,
		ColorCamisa:   p.ColorCamisa,
		Notas:         p.Notas,
		Asignaciones:  toAsignacionDTOs(p.Asignaciones),
		CreatedAt:     formatStamp(p.CreatedAt),
		UpdatedAt:     formatStamp(p.UpdatedAt),
	}
}

func toFichajeDTO(f entities.Fichaje, nombre string) dto.FichajeDTO {
	return dto.FichajeDTO{
		PedidoID:      f.PedidoID,
		CamareroID:    f.CamareroID,
		Nombre:        nombre,
		Entrada:       f.Entrada,
		Salida:        f.Salida,
		Nota:          f.Nota,
		EditadoManual: f.EditadoManual,
		Estado:        string(f.Estado()),
		Duracion:      utils.CalcularDuracion(f.Entrada, f.Salida),
	}
}
