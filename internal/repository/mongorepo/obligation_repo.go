package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
	"github.com/Werneck0live/empresas-obrigacoes/internal/repository"
)

type ObligationRepository struct {
	db        *mongo.Database
	coll      *mongo.Collection
	companies *mongo.Collection
}

func NewObligationRepository(db *mongo.Database) *ObligationRepository {
	return &ObligationRepository{
		db:        db,
		coll:      db.Collection(obligationsColl),
		companies: db.Collection(companiesColl),
	}
}

func (r *ObligationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "empresa_id", Value: 1}},
		Options: options.Index().SetName("idx_empresa_id"),
	})
	return err
}

// lockCompany faz o papel da FK: empresa_id precisa existir. O $inc em rev
// marca o documento da empresa como escrito pela transação, e um Delete
// concorrente da mesma empresa cai em WriteConflict em vez de deixar órfãos.
func (r *ObligationRepository) lockCompany(sc mongo.SessionContext, empresaID *int64) error {
	if empresaID == nil {
		return repository.ErrUnknownCompany
	}
	res, err := r.companies.UpdateOne(sc, bson.M{"_id": *empresaID}, bson.M{"$inc": bson.M{"rev": int64(1)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrUnknownCompany
	}
	return nil
}

func (r *ObligationRepository) Create(ctx context.Context, o *models.Obligation) error {
	if o.EmpresaID == nil {
		return repository.ErrUnknownCompany
	}
	// fora da transação: um id perdido num rollback só deixa buraco na sequência
	id, err := nextID(ctx, r.db, obligationsColl)
	if err != nil {
		return &repository.PersistenceError{Op: "create", Err: err}
	}
	o.ID = id
	err = withTx(ctx, r.db, func(sc mongo.SessionContext) error {
		if err := r.lockCompany(sc, o.EmpresaID); err != nil {
			return err
		}
		_, err := r.coll.InsertOne(sc, o)
		return err
	})
	if err != nil {
		o.ID = 0
		return classify("create", err)
	}
	return nil
}

func (r *ObligationRepository) List(ctx context.Context) ([]models.Obligation, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, classify("list", err)
	}
	defer cur.Close(ctx)

	list := []models.Obligation{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, classify("list", err)
	}
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return list, nil
}

func (r *ObligationRepository) GetByID(ctx context.Context, id int64) (*models.Obligation, error) {
	var o models.Obligation
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, classify("get", err)
	}
	return &o, nil
}

func (r *ObligationRepository) Update(ctx context.Context, id int64, in *models.Obligation) (*models.Obligation, error) {
	doc := models.Obligation{
		ID:            id,
		Nome:          in.Nome,
		Periodicidade: in.Periodicidade,
		EmpresaID:     in.EmpresaID,
	}
	err := withTx(ctx, r.db, func(sc mongo.SessionContext) error {
		n, err := r.coll.CountDocuments(sc, bson.M{"_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		if err := r.lockCompany(sc, in.EmpresaID); err != nil {
			return err
		}
		res, err := r.coll.ReplaceOne(sc, bson.M{"_id": id}, doc)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, classify("update", err)
	}
	return &doc, nil
}

func (r *ObligationRepository) Delete(ctx context.Context, id int64) (*models.Obligation, error) {
	var o models.Obligation
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, classify("delete", err)
	}
	return &o, nil
}
