package transfer

import "github.com/gestionapp/negocio-api/internal/domain/entity"

// Tabla de transiciones legales del ciclo de vida de un traslado.
//
//	draft --confirm--> confirmed --receive--> received
//	draft --delete---> (eliminado)
//	draft/confirmed --cancel--> cancelled   (vía administrativa)
//
// received y cancelled son terminales.
var transitions = map[string]map[string]bool{
	entity.TransferStatusDraft: {
		entity.TransferStatusConfirmed: true,
		entity.TransferStatusCancelled: true,
	},
	entity.TransferStatusConfirmed: {
		entity.TransferStatusReceived:  true,
		entity.TransferStatusCancelled: true,
	},
}

// CanTransition indica si el cambio de estado from -> to es legal.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

// CanDelete indica si un traslado en el estado dado puede eliminarse
// (borrado físico, sin efecto sobre inventario). Solo aplica a borradores.
func CanDelete(status string) bool {
	return status == entity.TransferStatusDraft
}
