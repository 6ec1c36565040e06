package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
)

type CompanyRepository struct {
	db     *gorm.DB
	policy DeletePolicy
}

func NewCompanyRepository(db *gorm.DB, policy DeletePolicy) *CompanyRepository {
	if policy == "" {
		policy = Restrict
	}
	return &CompanyRepository{db: db, policy: policy}
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	c.ID = 0 // atribuído pelo banco
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(c).Error
	})
	return classify("create", err)
}

// List devolve todas as empresas por id. Lista vazia é ErrNotFound.
func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	var list []models.Company
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, classify("list", err)
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	var c models.Company
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, classify("get", err)
	}
	return &c, nil
}

// Update substitui todos os campos mutáveis da empresa id (PUT).
func (r *CompanyRepository) Update(ctx context.Context, id int64, in *models.Company) (*models.Company, error) {
	var cur models.Company
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cur, id).Error; err != nil {
			return err
		}
		cur.Nome = in.Nome
		cur.CNPJ = in.CNPJ
		cur.Endereco = in.Endereco
		cur.Email = in.Email
		cur.Telefone = in.Telefone
		return tx.Save(&cur).Error
	})
	if err != nil {
		return nil, classify("update", err)
	}
	return &cur, nil
}

// Delete remove a empresa aplicando a DeletePolicy às suas obrigações e
// devolve os últimos valores conhecidos.
func (r *CompanyRepository) Delete(ctx context.Context, id int64) (*models.Company, error) {
	var cur models.Company
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cur, id).Error; err != nil {
			return err
		}
		children := tx.Model(&models.Obligation{}).Where("empresa_id = ?", id)
		switch r.policy {
		case Cascade:
			if err := children.Delete(&models.Obligation{}).Error; err != nil {
				return err
			}
		case SetNull:
			if err := children.Update("empresa_id", nil).Error; err != nil {
				return err
			}
		default:
			var n int64
			if err := children.Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrCompanyInUse
			}
		}
		return tx.Delete(&models.Company{}, id).Error
	})
	if err != nil {
		return nil, classify("delete", err)
	}
	return &cur, nil
}

// Ping verifica a conexão com o banco (usado no /healthz).
func (r *CompanyRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
