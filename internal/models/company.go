package models

// Company é a empresa cadastrada. CNPJ é único entre todas as empresas.
type Company struct {
	ID       int64   `gorm:"primaryKey" bson:"_id" json:"id"`
	Nome     string  `gorm:"not null;index" bson:"nome" json:"nome"`
	CNPJ     string  `gorm:"column:cnpj;not null;uniqueIndex" bson:"cnpj" json:"cnpj"`
	Endereco *string `bson:"endereco" json:"endereco"`
	Email    *string `bson:"email" json:"email"`
	Telefone *string `bson:"telefone" json:"telefone"`

	// somente para o gorm declarar a FK em obrigacoes_acessorias
	Obrigacoes []Obligation `gorm:"foreignKey:EmpresaID" bson:"-" json:"-"`
}

func (Company) TableName() string { return "empresas" }

// Label é o nome exibido nas notificações.
func (c *Company) Label() string {
	if c.Nome != "" {
		return c.Nome
	}
	return c.CNPJ
}
