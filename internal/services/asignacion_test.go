package services

import (
	"context"
	"errors"
	"testing"

	"staffing-system/internal/dto"
	"staffing-system/internal/entities"
	"staffing-system/internal/events"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/types"
	"staffing-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAsignacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1")
	f.seedCamarero(t, "c1", "Ana")

	t.Run("copies display fields from the catalog", func(t *testing.T) {
		got, err := f.asignaciones.CreateAsignacion(ctx, "p1", dto.CreateAsignacionDTO{CamareroID: "c1"})
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Nombre)
		assert.Equal(t, "07", got.Numero)
		assert.Equal(t, string(entities.EstadoPendiente), got.Estado)
	})

	t.Run("rejects a duplicate camarero", func(t *testing.T) {
		_, err := f.asignaciones.CreateAsignacion(ctx, "p1", dto.CreateAsignacionDTO{CamareroID: "c1", Nombre: "Ana"})
		requireHTTPCode(t, err, 400)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateAssignment)
	})

	t.Run("unknown camarero without display name", func(t *testing.T) {
		_, err := f.asignaciones.CreateAsignacion(ctx, "p1", dto.CreateAsignacionDTO{CamareroID: "ghost"})
		requireHTTPCode(t, err, 404)
	})

	t.Run("shift must exist", func(t *testing.T) {
		_, err := f.asignaciones.CreateAsignacion(ctx, "p1", dto.CreateAsignacionDTO{
			CamareroID: "c2", Nombre: "Luis", Turno: null.IntFrom(2),
		})
		requireHTTPCode(t, err, 400)
	})

	t.Run("unknown pedido", func(t *testing.T) {
		_, err := f.asignaciones.CreateAsignacion(ctx, "nope", dto.CreateAsignacionDTO{CamareroID: "c3", Nombre: "Eva"})
		requireHTTPCode(t, err, 404)
	})

	p, err := f.pedidos.Find(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, p.Asignaciones, 1)
}

func TestMarkSent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1",
		asig("c1", "Ana", entities.EstadoPendiente),
		asig("c2", "Luis", entities.EstadoConfirmado),
	)

	got, err := f.asignaciones.MarkSent(ctx, "p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, string(entities.EstadoEnviado), got.Estado)

	// Sending again keeps it sent.
	got, err = f.asignaciones.MarkSent(ctx, "p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, string(entities.EstadoEnviado), got.Estado)

	_, err = f.asignaciones.MarkSent(ctx, "p1", "c2")
	requireHTTPCode(t, err, 400)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.asignaciones.MarkSent(ctx, "p1", "missing")
	requireHTTPCode(t, err, 404)
}

func TestRecordReply_ConfirmProvisionsFichaje(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoEnviado))

	_, err := f.fichajes.Find(ctx, "p1", "c1")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoConfirmado, OrigenWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, string(entities.EstadoConfirmado), got.Estado)

	fichaje, err := f.fichajes.Find(ctx, "p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, entities.FichajePendiente, fichaje.Estado())
	assert.False(t, fichaje.EditadoManual)

	require.Equal(t, 1, f.bus.count())
	ev, ok := f.bus.events[0].(events.AsignacionRespondidaEvent)
	require.True(t, ok)
	assert.Equal(t, OrigenWhatsApp, ev.Origen)
	assert.Equal(t, entities.EstadoConfirmado, ev.Asignacion.Estado)
	assert.Equal(t, "p1", ev.Pedido.ID)

	// A repeated webhook delivery changes nothing and publishes nothing.
	_, err = f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoConfirmado, OrigenWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, 1, f.bus.count())

	_, err = f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoNoConfirmado, OrigenManual)
	requireHTTPCode(t, err, 400)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestRecordWhatsAppReply_ChecksSender(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedCamarero(t, "c1", "Ana")
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoEnviado))

	for _, from := range []string{"19999999999", "612345679", ""} {
		_, err := f.asignaciones.RecordWhatsAppReply(ctx, "p1", "c1", entities.EstadoConfirmado, from)
		requireHTTPCode(t, err, 403)
		assert.ErrorIs(t, err, apperrors.ErrForeignSender, from)
	}
	assert.Equal(t, 0, f.bus.count())

	_, err := f.asignaciones.RecordWhatsAppReply(ctx, "p1", "c2", entities.EstadoConfirmado, "34612345678")
	requireHTTPCode(t, err, 404)

	got, err := f.asignaciones.RecordWhatsAppReply(ctx, "p1", "c1", entities.EstadoConfirmado, "34612345678")
	require.NoError(t, err)
	assert.Equal(t, string(entities.EstadoConfirmado), got.Estado)
	require.Equal(t, 1, f.bus.count())
	ev, ok := f.bus.events[0].(events.AsignacionRespondidaEvent)
	require.True(t, ok)
	assert.Equal(t, OrigenWhatsApp, ev.Origen)
}

func TestRecordReply_FromPendingAndExistingFichaje(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1",
		asig("c1", "Ana", entities.EstadoPendiente),
		asig("c2", "Luis", entities.EstadoPendiente),
	)

	got, err := f.asignaciones.RecordReply(ctx, "p1", "c2", entities.EstadoNoConfirmado, OrigenManual)
	require.NoError(t, err)
	assert.Equal(t, string(entities.EstadoNoConfirmado), got.Estado)
	_, err = f.fichajes.Find(ctx, "p1", "c2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	existing := entities.NewFichaje("p1", "c1")
	existing.Entrada = null.TimeFrom(testNow)
	require.NoError(t, f.fichajes.Save(ctx, &existing))

	_, err = f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoConfirmado, OrigenManual)
	require.NoError(t, err)
	fichaje, err := f.fichajes.Find(ctx, "p1", "c1")
	require.NoError(t, err)
	assert.True(t, fichaje.Entrada.Valid, "an existing entry is not overwritten")

	_, err = f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoPendiente, OrigenManual)
	requireHTTPCode(t, err, 400)
}

func TestResetAndReply(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoEnviado))

	_, err := f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoConfirmado, OrigenManual)
	require.NoError(t, err)

	got, err := f.asignaciones.ResetToPending(ctx, "p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, string(entities.EstadoPendiente), got.Estado)

	got, err = f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoNoConfirmado, OrigenManual)
	require.NoError(t, err)
	assert.Equal(t, string(entities.EstadoNoConfirmado), got.Estado)

	// The fichaje created by the first confirmation survives.
	_, err = f.fichajes.Find(ctx, "p1", "c1")
	assert.NoError(t, err)
}

func TestUpdateAsignacion_Overrides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoEnviado))

	got, err := f.asignaciones.UpdateAsignacion(ctx, "p1", "c1", dto.UpdateAsignacionDTO{
		Turno:       types.NewOptionalInt(1),
		HoraEntrada: types.NewOptionalString("17:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Turno.Int)
	assert.Equal(t, "17:30", got.HoraEntrada.String)
	assert.Equal(t, string(entities.EstadoEnviado), got.Estado, "editing overrides keeps the status")

	got, err = f.asignaciones.UpdateAsignacion(ctx, "p1", "c1", dto.UpdateAsignacionDTO{
		HoraEntrada: types.NullOptionalString(),
	})
	require.NoError(t, err)
	assert.False(t, got.HoraEntrada.Valid)
	assert.True(t, got.Turno.Valid, "absent fields are untouched")

	_, err = f.asignaciones.UpdateAsignacion(ctx, "p1", "c1", dto.UpdateAsignacionDTO{
		Turno: types.NewOptionalInt(2),
	})
	requireHTTPCode(t, err, 400)

	_, err = f.asignaciones.UpdateAsignacion(ctx, "p1", "c1", dto.UpdateAsignacionDTO{Estado: utils.ToPtr("confirmado")})
	requireHTTPCode(t, err, 400)
}

func TestRemoveAsignacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1",
		asig("c1", "Ana", entities.EstadoPendiente),
		asig("c2", "Luis", entities.EstadoPendiente),
	)

	require.NoError(t, f.asignaciones.RemoveAsignacion(ctx, "p1", "c1"))
	requireHTTPCode(t, f.asignaciones.RemoveAsignacion(ctx, "p1", "c1"), 404)

	p, err := f.pedidos.Find(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, p.Asignaciones, 1)
	assert.Equal(t, "c2", p.Asignaciones[0].CamareroID)
}

func TestFilterConfirmed(t *testing.T) {
	in := []entities.Asignacion{
		asig("c1", "Ana", entities.EstadoConfirmado),
		asig("c2", "Luis", entities.EstadoEnviado),
		asig("c3", "Eva", entities.EstadoNoConfirmado),
		asig("c4", "Marta", entities.EstadoConfirmado),
		asig("c5", "Pablo", entities.EstadoPendiente),
	}

	got := FilterConfirmed(in)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].CamareroID)
	assert.Equal(t, "c4", got[1].CamareroID)

	assert.Empty(t, FilterConfirmed(nil))
}

func TestListConfirmed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1",
		asig("c1", "Ana", entities.EstadoEnviado),
		asig("c2", "Luis", entities.EstadoConfirmado),
	)

	got, err := f.asignaciones.ListConfirmed(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0].CamareroID)

	_, err = f.asignaciones.ListConfirmed(ctx, "nope")
	requireHTTPCode(t, err, 404)
}

func TestEnviarNotificacion_ManualLink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedCamarero(t, "c1", "Ana")
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoPendiente))

	got, err := f.asignaciones.EnviarNotificacion(ctx, "p1", "c1", "")
	require.NoError(t, err)
	assert.Equal(t, CanalWhatsApp, got.Canal)
	assert.Equal(t, ModoManual, got.Modo)
	assert.Contains(t, got.Enlace, "https://wa.me/34612345678?text=")
	assert.Equal(t, string(entities.EstadoEnviado), got.Asignacion.Estado)
	assert.Empty(t, f.wa.sent)
}

func TestEnviarNotificacion_Automatic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.seedCamarero(t, "c1", "Ana")
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoPendiente))

	got, err := f.asignaciones.EnviarNotificacion(ctx, "p1", "c1", CanalWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, ModoAutomatico, got.Modo)
	assert.Equal(t, "wamid.test", got.MessageID)

	require.Len(t, f.wa.sent, 1)
	require.Len(t, f.wa.sent[0].Buttons, 2)
	outcome, pid, cid, ok := ParseReplyPayload(f.wa.sent[0].Buttons[0].ID)
	require.True(t, ok)
	assert.Equal(t, entities.EstadoConfirmado, outcome)
	assert.Equal(t, "p1", pid)
	assert.Equal(t, "c1", cid)
	assert.Contains(t, f.wa.sent[0].Text, "18:00 - 23:00")
}

func TestEnviarNotificacion_GatewayFailureKeepsStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.wa.err = errors.New("connection reset")
	f.seedCamarero(t, "c1", "Ana")
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoPendiente))

	_, err := f.asignaciones.EnviarNotificacion(ctx, "p1", "c1", CanalWhatsApp)
	requireHTTPCode(t, err, 500)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	p, err := f.pedidos.Find(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, entities.EstadoPendiente, p.Asignaciones[0].Estado)
}

func TestEnviarNotificacion_ReplyDuringDispatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.seedCamarero(t, "c1", "Ana")
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoPendiente))

	var replyErr error
	f.wa.onSend = func() {
		_, replyErr = f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoConfirmado, OrigenWhatsApp)
	}

	got, err := f.asignaciones.EnviarNotificacion(ctx, "p1", "c1", CanalWhatsApp)
	require.NoError(t, err)
	require.NoError(t, replyErr)
	assert.Equal(t, ModoAutomatico, got.Modo)
	assert.Equal(t, string(entities.EstadoConfirmado), got.Asignacion.Estado)
	assert.Len(t, f.wa.sent, 1)

	p, err := f.pedidos.Find(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, entities.EstadoConfirmado, p.Asignaciones[0].Estado)

	// A direct MarkSent on a replied assignment is still rejected.
	_, err = f.asignaciones.MarkSent(ctx, "p1", "c1")
	requireHTTPCode(t, err, 400)
}

func TestEnviarNotificacion_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedCamarero(t, "c1", "Ana")
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoConfirmado))

	_, err := f.asignaciones.EnviarNotificacion(ctx, "p1", "c1", CanalWhatsApp)
	requireHTTPCode(t, err, 400)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.asignaciones.ResetToPending(ctx, "p1", "c1")
	require.NoError(t, err)

	// No email on file.
	_, err = f.asignaciones.EnviarNotificacion(ctx, "p1", "c1", CanalEmail)
	requireHTTPCode(t, err, 400)
	assert.Empty(t, f.mail.sent)
}

func TestEnviarNotificacion_Email(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	require.NoError(t, f.camareros.Save(ctx, &entities.Camarero{
		ID: "c1", Nombre: "Ana", Telefono: "612345678", Email: null.StringFrom("ana@example.com"),
	}))
	f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoPendiente))

	got, err := f.asignaciones.EnviarNotificacion(ctx, "p1", "c1", CanalEmail)
	require.NoError(t, err)
	assert.Equal(t, CanalEmail, got.Canal)
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "ana@example.com", f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].Subject, "Bodas Sur")
}
