package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
)

type ObligationRepository struct {
	db *gorm.DB
}

func NewObligationRepository(db *gorm.DB) *ObligationRepository {
	return &ObligationRepository{db: db}
}

// Create insere a obrigação; a FK empresa_id é validada pelo banco.
func (r *ObligationRepository) Create(ctx context.Context, o *models.Obligation) error {
	o.ID = 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
	return classify("create", err)
}

func (r *ObligationRepository) List(ctx context.Context) ([]models.Obligation, error) {
	var list []models.Obligation
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, classify("list", err)
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list, nil
}

func (r *ObligationRepository) GetByID(ctx context.Context, id int64) (*models.Obligation, error) {
	var o models.Obligation
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, classify("get", err)
	}
	return &o, nil
}

func (r *ObligationRepository) Update(ctx context.Context, id int64, in *models.Obligation) (*models.Obligation, error) {
	var cur models.Obligation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cur, id).Error; err != nil {
			return err
		}
		cur.Nome = in.Nome
		cur.Periodicidade = in.Periodicidade
		cur.EmpresaID = in.EmpresaID
		return tx.Save(&cur).Error
	})
	if err != nil {
		return nil, classify("update", err)
	}
	return &cur, nil
}

func (r *ObligationRepository) Delete(ctx context.Context, id int64) (*models.Obligation, error) {
	var cur models.Obligation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cur, id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Obligation{}, id).Error
	})
	if err != nil {
		return nil, classify("delete", err)
	}
	return &cur, nil
}
