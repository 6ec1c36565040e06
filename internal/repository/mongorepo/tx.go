package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// withTx roda fn numa transação multi-documento. WithTransaction repete fn em
// erros transitórios (ex.: WriteConflict), então fn não pode ter efeitos fora
// do banco além de preencher variáveis do chamador.
func withTx(ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
