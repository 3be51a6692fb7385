// Seeds a local database with demo staff, sessions, messages, inventory and
// orders so the dashboard has something to show.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/config"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/database"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

var sizes = []string{"185/65R15", "195/55R16", "205/55R16", "215/55R17", "225/45R17", "235/65R17"}

var stages = []model.PipelineStage{
	model.StageExploring, model.StageExploring, model.StageQuoted,
	model.StageLinkSent, model.StagePaid, model.StageDelivered, model.StageLost,
}

func main() {
	cfg := must(config.Load())
	_ = logger.Init(cfg.Log.Level)
	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	n := 60
	if s := os.Getenv("N"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			n = v
		}
	}

	// Demo staff account.
	hash := must(service.HashPassword("reluvsa2024"))
	admin := model.Profile{
		ID:           uuid.New().String(),
		Email:        "admin@reluvsa.mx",
		FullName:     "Admin RELUVSA",
		PasswordHash: hash,
	}
	_ = db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error

	// Inventory snapshot.
	for i, size := range sizes {
		item := model.InventoryItem{
			SnapshotID:   uuid.New().String(),
			Description:  fmt.Sprintf("LLANTA NEREUS NS601 %s", size),
			Size:         size,
			Category:     "llanta",
			Price:        float64(1200 + 150*i),
			PriceWithTax: float64(1200+150*i) * 1.16,
			Stock:        int64(rand.Intn(12)),
		}
		_ = db.Create(&item).Error
	}

	now := time.Now()
	for i := 0; i < n; i++ {
		phone := fmt.Sprintf("+5233%08d", rand.Intn(100000000))
		stage := stages[rand.Intn(len(stages))]
		lastMsg := now.Add(-time.Duration(rand.Intn(90*24)) * time.Hour)

		sess := model.ChatSession{
			ID:            uuid.New().String(),
			Phone:         phone,
			CustomerName:  fmt.Sprintf("Cliente %d", i+1),
			SelectedSize:  sizes[rand.Intn(len(sizes))],
			PipelineStage: stage,
			LastMessageAt: &lastMsg,
			UnreadCount:   rand.Intn(4),
			HandledBy:     model.HandledByBot,
			CreatedAt:     lastMsg.Add(-2 * time.Hour),
		}
		if rand.Intn(4) == 0 {
			sess.HandledBy = model.HandledByAgent
			sess.AssignedAgentID = &admin.ID
		}
		_ = db.Create(&sess).Error

		for j := 0; j < 2+rand.Intn(6); j++ {
			kind := model.MessageFromCustomer
			if j%2 == 1 {
				kind = model.MessageFromBot
			}
			msg := model.Message{
				ID:        uuid.New().String(),
				SessionID: sess.ID,
				Kind:      kind,
				Body:      fmt.Sprintf("mensaje %d", j+1),
				CreatedAt: lastMsg.Add(time.Duration(j-6) * time.Minute),
			}
			_ = db.Create(&msg).Error
		}

		// Paid-and-beyond sessions get a matching order.
		if stage == model.StagePaid || stage == model.StageDelivered {
			paidAt := lastMsg
			status := model.OrderStatusPaid
			if stage == model.StageDelivered {
				status = model.OrderStatusDelivered
			}
			subtotal := float64(2000 + rand.Intn(4000))
			sid := sess.ID
			order := model.Order{
				ID:           uuid.New().String(),
				SessionID:    &sid,
				Phone:        phone,
				CustomerName: sess.CustomerName,
				Items: model.OrderItems{{
					Description: "LLANTA NEREUS NS601 " + sess.SelectedSize,
					Size:        sess.SelectedSize,
					Brand:       "NEREUS",
					UnitPrice:   subtotal / 2,
					Quantity:    2,
				}},
				Subtotal:      subtotal,
				Total:         subtotal,
				Status:        status,
				PaymentMethod: model.PaymentStripe,
				PaidAt:        &paidAt,
				CreatedAt:     paidAt.Add(-time.Hour),
			}
			_ = db.Create(&order).Error
		}
	}

	fmt.Printf("seeded %d sessions (admin: admin@reluvsa.mx / reluvsa2024)\n", n)
}
