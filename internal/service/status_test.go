package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
)

func TestNextStatuses(t *testing.T) {
	cases := []struct {
		from model.OrderStatus
		want []model.OrderStatus
	}{
		{model.OrderStatusPendingPayment, []model.OrderStatus{model.OrderStatusPaid, model.OrderStatusCancelled}},
		{model.OrderStatusPaid, []model.OrderStatus{model.OrderStatusShipped, model.OrderStatusCancelled}},
		{model.OrderStatusShipped, []model.OrderStatus{model.OrderStatusDelivered}},
		{model.OrderStatusDelivered, nil},
		{model.OrderStatusCancelled, nil},
		{"desconocido", nil},
	}
	for _, tc := range cases {
		got := NextStatuses(tc.from)
		assert.ElementsMatch(t, tc.want, got, "from %s", tc.from)
	}
}

func TestNextStatusesReturnsCopy(t *testing.T) {
	first := NextStatuses(model.OrderStatusPendingPayment)
	first[0] = "mutado"
	second := NextStatuses(model.OrderStatusPendingPayment)
	assert.NotContains(t, second, model.OrderStatus("mutado"))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(model.OrderStatusPendingPayment, model.OrderStatusPaid))
	assert.True(t, CanTransition(model.OrderStatusPaid, model.OrderStatusShipped))
	assert.True(t, CanTransition(model.OrderStatusShipped, model.OrderStatusDelivered))

	// No skipping ahead, no resurrecting terminal states.
	assert.False(t, CanTransition(model.OrderStatusPendingPayment, model.OrderStatusShipped))
	assert.False(t, CanTransition(model.OrderStatusPaid, model.OrderStatusDelivered))
	assert.False(t, CanTransition(model.OrderStatusShipped, model.OrderStatusCancelled))
	assert.False(t, CanTransition(model.OrderStatusDelivered, model.OrderStatusCancelled))
	assert.False(t, CanTransition(model.OrderStatusCancelled, model.OrderStatusPaid))
}

func TestStageForStatus(t *testing.T) {
	cases := map[model.OrderStatus]model.PipelineStage{
		model.OrderStatusPendingPayment: model.StageLinkSent,
		model.OrderStatusPaid:           model.StagePaid,
		model.OrderStatusShipped:        model.StagePaid,
		model.OrderStatusDelivered:      model.StageDelivered,
		model.OrderStatusCancelled:      model.StageLost,
	}
	for status, want := range cases {
		stage, ok := StageForStatus(status)
		assert.True(t, ok, "status %s", status)
		assert.Equal(t, want, stage, "status %s", status)
	}

	_, ok := StageForStatus("desconocido")
	assert.False(t, ok)
}
