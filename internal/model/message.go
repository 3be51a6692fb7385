package model

import "time"

type MessageKind string

const (
	MessageFromCustomer MessageKind = "cliente"
	MessageFromBot      MessageKind = "bot"
	MessageFromAgent    MessageKind = "vendedor"
)

// Message is one WhatsApp message inside a session.
type Message struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID string      `json:"sesion_id" gorm:"column:sesion_id;type:varchar(36);index:idx_message_session;not null"`
	Phone     string      `json:"telefono" gorm:"column:telefono;type:varchar(32)"`
	Kind      MessageKind `json:"tipo" gorm:"column:tipo;type:varchar(12);not null"`
	Body      string      `json:"contenido" gorm:"column:contenido;type:text"`
	Read      bool        `json:"leido" gorm:"column:leido;not null;default:false"`
	CreatedAt time.Time   `json:"created_at" gorm:"index;not null"`
}

func (Message) TableName() string { return "mensajes" }
