package service

import "github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"

// orderTransitions is the legal successor set per status. Entregado and
// cancelado are terminal. The table drives which actions the dashboard
// offers; the mutation path checks only that the target is a known value,
// so a direct call can skip intermediate states (admin override).
var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPendingPayment: {model.OrderStatusPaid, model.OrderStatusCancelled},
	model.OrderStatusPaid:           {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:        {model.OrderStatusDelivered},
	model.OrderStatusDelivered:      {},
	model.OrderStatusCancelled:      {},
}

// NextStatuses returns the statuses reachable from s in one step. Unknown
// statuses have no successors.
func NextStatuses(s model.OrderStatus) []model.OrderStatus {
	next, ok := orderTransitions[s]
	if !ok {
		return []model.OrderStatus{}
	}
	out := make([]model.OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from→to appears in the table.
func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// statusToStage maps an order status onto the session pipeline stage it
// implies. There is no distinct "enviado" stage; shipped orders stay in
// pagado (confirmed business semantics).
var statusToStage = map[model.OrderStatus]model.PipelineStage{
	model.OrderStatusPendingPayment: model.StageLinkSent,
	model.OrderStatusPaid:           model.StagePaid,
	model.OrderStatusShipped:        model.StagePaid,
	model.OrderStatusDelivered:      model.StageDelivered,
	model.OrderStatusCancelled:      model.StageLost,
}

// StageForStatus returns the pipeline stage implied by an order status.
func StageForStatus(s model.OrderStatus) (model.PipelineStage, bool) {
	stage, ok := statusToStage[s]
	return stage, ok
}
