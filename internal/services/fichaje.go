package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"staffing-system/internal/dto"
	"staffing-system/internal/entities"
	"staffing-system/internal/metrics"
	"staffing-system/internal/repositories"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/keymutex"
	"staffing-system/pkg/types"
	"staffing-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

const (
	CheckinEntrada = "entrada"
	CheckinSalida  = "salida"
)

type FichajeServiceInterface interface {
	GetFichaje(ctx context.Context, pedidoID, camareroID string) (*dto.FichajeDTO, error)
	ListFichajes(ctx context.Context, pedidoID string) ([]dto.FichajeDTO, error)
	SetFichaje(ctx context.Context, pedidoID, camareroID string, payload dto.SetFichajeDTO) (*dto.FichajeDTO, error)
	RegistrarCheckin(ctx context.Context, token string) (*dto.CheckinResultDTO, error)
	Resumen(ctx context.Context, pedidoID string) (*dto.ResumenDTO, error)
	GenerarQR(ctx context.Context, pedidoID, camareroID string) (*dto.QRTokenDTO, error)
}

type FichajeService struct {
	pedidoRepo  repositories.PedidoRepositoryInterface
	fichajeRepo repositories.FichajeRepositoryInterface
	qrTokens    QRTokenServiceInterface
	locker      keymutex.Locker
	logger      *zap.Logger
	now         func() time.Time
}

func NewFichajeService(
	pedidoRepo repositories.PedidoRepositoryInterface,
	fichajeRepo repositories.FichajeRepositoryInterface,
	qrTokens QRTokenServiceInterface,
	locker keymutex.Locker,
	logger *zap.Logger,
) *FichajeService {
	return &FichajeService{
		pedidoRepo:  pedidoRepo,
		fichajeRepo: fichajeRepo,
		qrTokens:    qrTokens,
		locker:      locker,
		logger:      logger,
		now:         time.Now,
	}
}

func fichajeLockKey(pedidoID, camareroID string) string {
	return "fichaje:" + pedidoID + ":" + camareroID
}

// load returns the stored entry or the implicit empty one.
func (s *FichajeService) load(ctx context.Context, pedidoID, camareroID string) (entities.Fichaje, error) {
	f, err := s.fichajeRepo.Find(ctx, pedidoID, camareroID)
	if err == nil {
		return *f, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return entities.NewFichaje(pedidoID, camareroID), nil
	}
	return entities.Fichaje{}, storeError(err, "")
}

// confirmada finds the camarero's assignment and requires it to be
// confirmed: nobody else is eligible for time tracking.
func confirmada(p *entities.Pedido, camareroID string) (entities.Asignacion, error) {
	idx, ok := p.FindAsignacion(camareroID)
	if !ok {
		return entities.Asignacion{}, apperrors.NewNotFoundError("el camarero no está asignado a este pedido")
	}
	a := p.Asignaciones[idx]
	if a.Estado != entities.EstadoConfirmado {
		return entities.Asignacion{}, apperrors.NewValidationError("solo las asignaciones confirmadas tienen fichaje", nil)
	}
	return a, nil
}

// GetFichaje answers with the stored entry or a pending default. A missing
// pedido or entry is not an error here; entries outliving a deleted pedido
// come back without nombre.
func (s *FichajeService) GetFichaje(ctx context.Context, pedidoID, camareroID string) (*dto.FichajeDTO, error) {
	f, err := s.load(ctx, pedidoID, camareroID)
	if err != nil {
		return nil, err
	}

	nombre := ""
	if p, err := s.pedidoRepo.Find(ctx, pedidoID); err == nil {
		if idx, ok := p.FindAsignacion(camareroID); ok {
			nombre = p.Asignaciones[idx].Nombre
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, storeError(err, "")
	}

	res := toFichajeDTO(f, nombre)
	return &res, nil
}

func (s *FichajeService) ListFichajes(ctx context.Context, pedidoID string) ([]dto.FichajeDTO, error) {
	p, err := s.pedidoRepo.Find(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	stored, err := s.fichajeRepo.ListByPedido(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "")
	}
	byCamarero := make(map[string]entities.Fichaje, len(stored))
	for _, f := range stored {
		byCamarero[f.CamareroID] = f
	}

	confirmed := FilterConfirmed(p.Asignaciones)
	out := make([]dto.FichajeDTO, 0, len(confirmed))
	for _, a := range confirmed {
		f, ok := byCamarero[a.CamareroID]
		if !ok {
			f = entities.NewFichaje(pedidoID, a.CamareroID)
		}
		out = append(out, toFichajeDTO(f, a.Nombre))
	}
	return out, nil
}

func parseOptionalTimestamp(field string, v types.OptionalString) (null.Time, error) {
	if !v.Valid || strings.TrimSpace(v.String.String) == "" {
		return null.Time{}, nil
	}
	t, err := utils.ParseTimestamp(v.String.String)
	if err != nil {
		return null.Time{}, apperrors.NewValidationError("formato de fecha no válido en "+field, err)
	}
	return null.TimeFrom(t), nil
}

func checkOrden(f entities.Fichaje) error {
	if f.Entrada.Valid && f.Salida.Valid && f.Salida.Time.Before(f.Entrada.Time) {
		return apperrors.NewValidationError("la salida no puede ser anterior a la entrada", nil)
	}
	return nil
}

// SetFichaje is the operator path: supplied fields overwrite, explicit nulls
// clear, and the entry is flagged as manually edited.
func (s *FichajeService) SetFichaje(ctx context.Context, pedidoID, camareroID string, payload dto.SetFichajeDTO) (*dto.FichajeDTO, error) {
	p, err := s.pedidoRepo.Find(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	a, err := confirmada(p, camareroID)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(fichajeLockKey(pedidoID, camareroID))
	defer unlock()

	f, err := s.load(ctx, pedidoID, camareroID)
	if err != nil {
		return nil, err
	}

	if payload.Entrada.Set {
		if f.Entrada, err = parseOptionalTimestamp("entrada", payload.Entrada); err != nil {
			return nil, err
		}
	}
	if payload.Salida.Set {
		if f.Salida, err = parseOptionalTimestamp("salida", payload.Salida); err != nil {
			return nil, err
		}
	}
	if payload.Nota.Set {
		if payload.Nota.Valid && utf8.RuneCountInString(payload.Nota.String.String) > entities.MaxNotaFichaje {
			return nil, apperrors.NewValidationError("la nota no puede superar los 100 caracteres", nil)
		}
		f.Nota = payload.Nota.String
	}
	if err := checkOrden(f); err != nil {
		return nil, err
	}

	f.EditadoManual = true
	f.UpdatedAt = s.now()
	if err := s.fichajeRepo.Save(ctx, &f); err != nil {
		return nil, storeError(err, "")
	}

	metrics.FichajeEditsTotal.WithLabelValues("manual").Inc()
	s.logger.Info("Fichaje editado manualmente",
		zap.String("pedido_id", pedidoID),
		zap.String("camarero_id", camareroID),
	)
	res := toFichajeDTO(f, a.Nombre)
	return &res, nil
}

// RegistrarCheckin is the QR path: the first scan sets entrada, the second
// salida. The manual flag is left as it is.
func (s *FichajeService) RegistrarCheckin(ctx context.Context, token string) (*dto.CheckinResultDTO, error) {
	claims, err := s.qrTokens.Validate(token)
	if err != nil {
		return nil, err
	}

	p, err := s.pedidoRepo.Find(ctx, claims.PedidoID)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	a, err := confirmada(p, claims.CamareroID)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(fichajeLockKey(claims.PedidoID, claims.CamareroID))
	defer unlock()

	f, err := s.load(ctx, claims.PedidoID, claims.CamareroID)
	if err != nil {
		return nil, err
	}

	now := s.now().Truncate(time.Second)
	var accion string
	switch {
	case !f.Entrada.Valid:
		f.Entrada = null.TimeFrom(now)
		accion = CheckinEntrada
	case !f.Salida.Valid:
		f.Salida = null.TimeFrom(now)
		accion = CheckinSalida
	default:
		return nil, apperrors.NewValidationError("el fichaje ya tiene entrada y salida", nil)
	}
	if err := checkOrden(f); err != nil {
		return nil, err
	}

	f.UpdatedAt = s.now()
	if err := s.fichajeRepo.Save(ctx, &f); err != nil {
		return nil, storeError(err, "")
	}

	metrics.FichajeEditsTotal.WithLabelValues("qr").Inc()
	s.logger.Info("Fichaje registrado por QR",
		zap.String("pedido_id", claims.PedidoID),
		zap.String("camarero_id", claims.CamareroID),
		zap.String("accion", accion),
	)
	return &dto.CheckinResultDTO{Accion: accion, Fichaje: toFichajeDTO(f, a.Nombre)}, nil
}

// Resumen lists the worked time of every complete entry, sorted by name.
func (s *FichajeService) Resumen(ctx context.Context, pedidoID string) (*dto.ResumenDTO, error) {
	p, err := s.pedidoRepo.Find(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	stored, err := s.fichajeRepo.ListByPedido(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "")
	}

	items := make([]dto.ResumenItemDTO, 0, len(stored))
	var total int64
	for _, f := range stored {
		if f.Estado() != entities.FichajeCompleto {
			continue
		}
		// Entries outlive their assignment; fall back to the id for the name.
		nombre := f.CamareroID
		if idx, ok := p.FindAsignacion(f.CamareroID); ok {
			nombre = p.Asignaciones[idx].Nombre
		}
		minutos := utils.DurationMinutes(f.Entrada.Time, f.Salida.Time)
		total += minutos
		items = append(items, dto.ResumenItemDTO{
			CamareroID: f.CamareroID,
			Nombre:     nombre,
			Duracion:   utils.FormatDuration(minutos),
			Minutos:    minutos,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Nombre), strings.ToLower(items[j].Nombre)
		if a != b {
			return a < b
		}
		return items[i].CamareroID < items[j].CamareroID
	})

	return &dto.ResumenDTO{
		PedidoID:     pedidoID,
		Items:        items,
		TotalMinutos: total,
		Total:        utils.FormatDuration(total),
	}, nil
}

func (s *FichajeService) GenerarQR(ctx context.Context, pedidoID, camareroID string) (*dto.QRTokenDTO, error) {
	p, err := s.pedidoRepo.Find(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	if _, err := confirmada(p, camareroID); err != nil {
		return nil, err
	}
	return s.qrTokens.Generate(pedidoID, camareroID)
}
