package entities

import (
	"fmt"

	"staffing-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type Turno struct {
	Numero     int    `json:"numero"`
	Camareros  int    `json:"camareros"`
	HoraInicio string `json:"hora_inicio"`
	HoraFin    string `json:"hora_fin"`
}

type Pedido struct {
	ID            string       `json:"id"`
	Cliente       string       `json:"cliente"`
	ClienteID     null.String  `json:"cliente_id"`
	CoordinadorID null.String  `json:"coordinador_id"`
	Lugar         string       `json:"lugar"`
	FechaEvento   string       `json:"fecha_evento"`
	Turnos        []Turno      `json:"turnos"`
	Catering      bool         `json:"catering"`
	ColorCamisa   string       `json:"color_camisa"`
	Notas         string       `json:"notas"`
	Asignaciones  []Asignacion `json:"asignaciones"`

	types.BaseEntity
}

// Validate is run on every record read back from the store.
func (p *Pedido) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pedido sin id")
	}
	seen := make(map[string]struct{}, len(p.Asignaciones))
	for _, a := range p.Asignaciones {
		if _, dup := seen[a.CamareroID]; dup {
			return fmt.Errorf("pedido %s: camarero %s asignado dos veces", p.ID, a.CamareroID)
		}
		seen[a.CamareroID] = struct{}{}
	}
	return nil
}

func (p *Pedido) FindAsignacion(camareroID string) (int, bool) {
	for i := range p.Asignaciones {
		if p.Asignaciones[i].CamareroID == camareroID {
			return i, true
		}
	}
	return -1, false
}

func (p *Pedido) Turno(numero int) (Turno, bool) {
	for _, t := range p.Turnos {
		if t.Numero == numero {
			return t, true
		}
	}
	return Turno{}, false
}

// HorarioDe resolves the working hours of an assignment: its own overrides
// first, then its shift, then the first shift.
func (p *Pedido) HorarioDe(a Asignacion) (inicio, fin string) {
	turno := Turno{}
	if a.Turno.Valid {
		turno, _ = p.Turno(a.Turno.Int)
	} else if len(p.Turnos) > 0 {
		turno = p.Turnos[0]
	}
	inicio, fin = turno.HoraInicio, turno.HoraFin
	if a.HoraEntrada.Valid {
		inicio = a.HoraEntrada.String
	}
	if a.HoraSalida.Valid {
		fin = a.HoraSalida.String
	}
	return inicio, fin
}
