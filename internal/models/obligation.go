package models

// Obligation é uma obrigação acessória (declaração recorrente) de uma empresa.
// EmpresaID só fica nulo quando a empresa foi excluída com a política set-null.
type Obligation struct {
	ID            int64  `gorm:"primaryKey" bson:"_id" json:"id"`
	Nome          string `gorm:"not null" bson:"nome" json:"nome"`
	Periodicidade string `gorm:"not null" bson:"periodicidade" json:"periodicidade"` // mensal, trimestral, anual...
	EmpresaID     *int64 `gorm:"index" bson:"empresa_id" json:"empresa_id"`
}

func (Obligation) TableName() string { return "obrigacoes_acessorias" }
