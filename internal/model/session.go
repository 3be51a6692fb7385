package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PipelineStage is the sales-funnel position of a session on the Kanban
// board. It is independent of, but kept loosely consistent with, OrderStatus.
type PipelineStage string

const (
	StageExploring PipelineStage = "explorando"
	StageQuoted    PipelineStage = "cotizado"
	StageLinkSent  PipelineStage = "link_enviado"
	StagePaid      PipelineStage = "pagado"
	StageDelivered PipelineStage = "entregado"
	StageLost      PipelineStage = "perdido"
)

// PipelineStages lists every stage in board column order.
var PipelineStages = []PipelineStage{
	StageExploring, StageQuoted, StageLinkSent, StagePaid, StageDelivered, StageLost,
}

var stageLabels = map[PipelineStage]string{
	StageExploring: "Explorando",
	StageQuoted:    "Cotizado",
	StageLinkSent:  "Link Enviado",
	StagePaid:      "Pagado",
	StageDelivered: "Entregado",
	StageLost:      "Perdido",
}

// Valid reports whether s is a recognized stage value.
func (s PipelineStage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label returns the Spanish column label shown on the board.
func (s PipelineStage) Label() string { return stageLabels[s] }

type HandledBy string

const (
	HandledByBot   HandledBy = "bot"
	HandledByAgent HandledBy = "vendedor"
)

// CartItem is one product in a session's cart JSON.
type CartItem struct {
	SnapshotID  string  `json:"snapshot_id"`
	Description string  `json:"descripcion"`
	Size        string  `json:"medida"`
	UnitPrice   float64 `json:"precio_unitario"`
	Quantity    int     `json:"cantidad"`
}

type Cart []CartItem

func (c Cart) Value() (driver.Value, error) { return json.Marshal(c) }

func (c *Cart) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = nil
		return nil
	}
	return fmt.Errorf("unsupported cart column type %T", value)
}

// ChatSession is a customer conversation record (lead), whether or not it
// produced an order. Created by the chatbot; mutated here only through stage
// moves, takeover/return-to-bot, unread resets and order-status sync.
type ChatSession struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Phone string `json:"telefono" gorm:"column:telefono;type:varchar(32);index:idx_session_phone;not null"`

	CustomerName  string `json:"nombre_cliente" gorm:"column:nombre_cliente;type:varchar(128)"`
	CustomerEmail string `json:"email_cliente" gorm:"column:email_cliente;type:varchar(128)"`

	SelectedSize string `json:"medida_seleccionada" gorm:"column:medida_seleccionada;type:varchar(32)"`
	Cart         Cart   `json:"carrito" gorm:"column:carrito;type:jsonb"`

	PipelineStage PipelineStage `json:"pipeline_stage" gorm:"type:varchar(16);index;not null;default:'explorando'"`

	LastMessage   string     `json:"ultimo_mensaje" gorm:"column:ultimo_mensaje;type:text"`
	LastMessageAt *time.Time `json:"ultimo_mensaje_at" gorm:"column:ultimo_mensaje_at;index"`
	UnreadCount   int        `json:"mensajes_no_leidos" gorm:"column:mensajes_no_leidos;not null;default:0"`

	HandledBy     HandledBy `json:"atendido_por" gorm:"column:atendido_por;type:varchar(12);not null;default:'bot'"`
	HandoffReason string    `json:"motivo_handoff" gorm:"column:motivo_handoff;type:text"`

	AssignedAgentID *string    `json:"vendedor_asignado_id" gorm:"column:vendedor_asignado_id;type:varchar(36);index"`
	AssignedAt      *time.Time `json:"vendedor_asignado_at" gorm:"column:vendedor_asignado_at"`

	OrderID *string `json:"pedido_id" gorm:"column:pedido_id;type:varchar(36)"`

	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (ChatSession) TableName() string { return "sesiones_chat" }

// ActivityTime is the recency timestamp the board filters and sorts by.
func (s *ChatSession) ActivityTime() time.Time {
	if s.LastMessageAt != nil {
		return *s.LastMessageAt
	}
	return s.CreatedAt
}
