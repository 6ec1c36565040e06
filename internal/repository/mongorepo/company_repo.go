// Package mongorepo implementa os repositórios sobre MongoDB.
//
// Escritas com mais de um passo (DeletePolicy, FK empresa_id) rodam em
// transação multi-documento, então o Mongo precisa ser um replica set (um nó
// basta). A FK é verificada pela aplicação: inserir ou mover uma obrigação
// escreve no documento da empresa, e um delete concorrente conflita com ela.
package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
	"github.com/Werneck0live/empresas-obrigacoes/internal/repository"
)

const (
	companiesColl   = "empresas"
	obligationsColl = "obrigacoes_acessorias"
)

type CompanyRepository struct {
	db          *mongo.Database
	coll        *mongo.Collection
	obligations *mongo.Collection
	policy      repository.DeletePolicy

	// chamado entre o passo da policy e a remoção da empresa; só testes usam
	afterChildren func() error
}

func NewCompanyRepository(db *mongo.Database, policy repository.DeletePolicy) *CompanyRepository {
	if policy == "" {
		policy = repository.Restrict
	}
	return &CompanyRepository{
		db:          db,
		coll:        db.Collection(companiesColl),
		obligations: db.Collection(obligationsColl),
		policy:      policy,
	}
}

func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "cnpj", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_cnpj"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	// Se já existir com outra opção, tenta dropar e recriar
	if ce, ok := err.(mongo.CommandError); ok && ce.Code == 85 { // IndexOptionsConflict
		if _, dropErr := r.coll.Indexes().DropOne(ctx, "uniq_cnpj"); dropErr != nil {
			return fmt.Errorf("drop index uniq_cnpj: %w", dropErr)
		}
		_, createErr := r.coll.Indexes().CreateOne(ctx, model)
		return createErr
	}
	return err
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	id, err := nextID(ctx, r.db, companiesColl)
	if err != nil {
		return &repository.PersistenceError{Op: "create", Err: err}
	}
	c.ID = id
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		c.ID = 0
		return classify("create", err)
	}
	return nil
}

func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, classify("list", err)
	}
	defer cur.Close(ctx)

	list := []models.Company{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, classify("list", err)
	}
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return list, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	var c models.Company
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, classify("get", err)
	}
	return &c, nil
}

// Update é um replace completo do documento (PUT), preservando o _id.
func (r *CompanyRepository) Update(ctx context.Context, id int64, in *models.Company) (*models.Company, error) {
	doc := models.Company{
		ID:       id,
		Nome:     in.Nome,
		CNPJ:     in.CNPJ,
		Endereco: in.Endereco,
		Email:    in.Email,
		Telefone: in.Telefone,
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return nil, classify("update", err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id int64) (*models.Company, error) {
	var c models.Company
	err := withTx(ctx, r.db, func(sc mongo.SessionContext) error {
		if err := r.coll.FindOne(sc, bson.M{"_id": id}).Decode(&c); err != nil {
			return err
		}

		children := bson.M{"empresa_id": id}
		switch r.policy {
		case repository.Cascade:
			if _, err := r.obligations.DeleteMany(sc, children); err != nil {
				return err
			}
		case repository.SetNull:
			if _, err := r.obligations.UpdateMany(sc, children, bson.M{"$set": bson.M{"empresa_id": nil}}); err != nil {
				return err
			}
		default:
			n, err := r.obligations.CountDocuments(sc, children, options.Count().SetLimit(1))
			if err != nil {
				return err
			}
			if n > 0 {
				return repository.ErrCompanyInUse
			}
		}

		if r.afterChildren != nil {
			if err := r.afterChildren(); err != nil {
				return err
			}
		}

		res, err := r.coll.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		return nil, classify("delete", err)
	}
	return &c, nil
}

func (r *CompanyRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// classify traduz erros do driver para os sentinelas do pacote repository;
// sentinelas devolvidos de dentro de uma transação passam direto.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrCompanyInUse),
		errors.Is(err, repository.ErrUnknownCompany),
		errors.Is(err, repository.ErrDuplicateCNPJ):
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateCNPJ
	}
	return &repository.PersistenceError{Op: op, Err: err}
}
