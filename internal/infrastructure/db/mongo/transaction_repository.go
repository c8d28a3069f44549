package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studorg/counter-system/internal/core/domain"
)

// TransactionRepository persists the transaction log. Each write runs inside
// a MongoDB multi-document transaction covering the balance mutation and the
// log insert, so a failure partway leaves neither behind. The balance change
// itself is a server-side $inc, which serializes concurrent writes against
// the same account; the driver retries transient transaction conflicts.
type TransactionRepository struct {
	db *mongo.Database
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{db: db}
}

type saleDoc struct {
	ID              string               `bson:"_id"`
	ProductID       string               `bson:"product_id"`
	CounterID       string               `bson:"counter_id"`
	UnitPrice       primitive.Decimal128 `bson:"unit_price"`
	Quantity        int                  `bson:"quantity"`
	SellerID        string               `bson:"seller_id"`
	CustomerAccount string               `bson:"customer_account"`
	Date            time.Time            `bson:"date"`
	IdempotencyKey  string               `bson:"idempotency_key,omitempty"`
}

type refillDoc struct {
	ID              string               `bson:"_id"`
	CounterID       string               `bson:"counter_id"`
	Amount          primitive.Decimal128 `bson:"amount"`
	OperatorID      string               `bson:"operator_id"`
	CustomerAccount string               `bson:"customer_account"`
	Date            time.Time            `bson:"date"`
	PaymentMethod   string               `bson:"payment_method"`
	Bank            string               `bson:"bank"`
	IdempotencyKey  string               `bson:"idempotency_key,omitempty"`
}

// CreateSale atomically debits the customer balance and inserts the sale
// record, returning the post-debit balance.
func (r *TransactionRepository) CreateSale(ctx context.Context, s *domain.Sale) (decimal.Decimal, error) {
	doc := saleDoc{
		ID:              s.ID,
		ProductID:       s.ProductID,
		CounterID:       s.CounterID,
		UnitPrice:       toDecimal128(s.UnitPrice),
		Quantity:        s.Quantity,
		SellerID:        s.SellerID,
		CustomerAccount: s.CustomerAccount,
		Date:            s.Date,
		IdempotencyKey:  s.IdempotencyKey,
	}
	return r.applyTransaction(ctx, s.CustomerAccount, s.Total().Neg(), collectionSales, doc)
}

// CreateRefill atomically credits the customer balance and inserts the refill
// record, returning the post-credit balance.
func (r *TransactionRepository) CreateRefill(ctx context.Context, refill *domain.Refill) (decimal.Decimal, error) {
	doc := refillDoc{
		ID:              refill.ID,
		CounterID:       refill.CounterID,
		Amount:          toDecimal128(refill.Amount),
		OperatorID:      refill.OperatorID,
		CustomerAccount: refill.CustomerAccount,
		Date:            refill.Date,
		PaymentMethod:   string(refill.PaymentMethod),
		Bank:            string(refill.Bank),
		IdempotencyKey:  refill.IdempotencyKey,
	}
	return r.applyTransaction(ctx, refill.CustomerAccount, refill.Amount, collectionRefills, doc)
}

// applyTransaction runs balance mutation + log insert as one unit.
func (r *TransactionRepository) applyTransaction(ctx context.Context, accountID string, delta decimal.Decimal, logCollection string, logDoc interface{}) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sess, err := r.db.Client().StartSession()
	if err != nil {
		return decimal.Zero, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	result, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var updated customerDoc
		err := r.db.Collection(collectionCustomers).FindOneAndUpdate(sc,
			bson.M{"account_id": accountID},
			bson.M{"$inc": bson.M{"balance": toDecimal128(delta)}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrCustomerNotFound
			}
			return nil, fmt.Errorf("update balance: %w", err)
		}

		if _, err := r.db.Collection(logCollection).InsertOne(sc, logDoc); err != nil {
			// The unique idempotency_key index caught a concurrent submission
			// that slipped past the Redis fast path. Aborting here also rolls
			// back the balance update.
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrDuplicateTransaction
			}
			return nil, fmt.Errorf("insert log record: %w", err)
		}

		balance, err := fromDecimal128(updated.Balance)
		if err != nil {
			return nil, err
		}
		return balance, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return result.(decimal.Decimal), nil
}

func (r *TransactionRepository) FindSaleByIdempotencyKey(ctx context.Context, key string) (*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc saleDoc
	err := r.db.Collection(collectionSales).FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return saleToDomain(doc)
}

func (r *TransactionRepository) FindRefillByIdempotencyKey(ctx context.Context, key string) (*domain.Refill, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc refillDoc
	err := r.db.Collection(collectionRefills).FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return refillToDomain(doc)
}

func (r *TransactionRepository) ListSalesByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.db.Collection(collectionSales).Find(ctx,
		bson.M{"customer_account": accountID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domain.Sale
	for cursor.Next(ctx) {
		var doc saleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		sale, err := saleToDomain(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, cursor.Err()
}

func (r *TransactionRepository) ListRefillsByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Refill, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.db.Collection(collectionRefills).Find(ctx,
		bson.M{"customer_account": accountID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domain.Refill
	for cursor.Next(ctx) {
		var doc refillDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		refill, err := refillToDomain(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, refill)
	}
	return out, cursor.Err()
}

// EnsureIndexes creates the indexes backing statements and idempotent replays.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	byAccount := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_account", Value: 1}, {Key: "date", Value: -1}}},
		// Sparse so records without a key are exempt; unique so the log is the
		// final arbiter when two submissions carry the same key.
		{Keys: bson.D{{Key: "idempotency_key", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}
	if _, err := r.db.Collection(collectionSales).Indexes().CreateMany(ctx, byAccount); err != nil {
		return err
	}
	_, err := r.db.Collection(collectionRefills).Indexes().CreateMany(ctx, byAccount)
	return err
}

func saleToDomain(doc saleDoc) (*domain.Sale, error) {
	unitPrice, err := fromDecimal128(doc.UnitPrice)
	if err != nil {
		return nil, err
	}
	return &domain.Sale{
		ID:              doc.ID,
		ProductID:       doc.ProductID,
		CounterID:       doc.CounterID,
		UnitPrice:       unitPrice,
		Quantity:        doc.Quantity,
		SellerID:        doc.SellerID,
		CustomerAccount: doc.CustomerAccount,
		Date:            doc.Date,
		IdempotencyKey:  doc.IdempotencyKey,
	}, nil
}

func refillToDomain(doc refillDoc) (*domain.Refill, error) {
	amount, err := fromDecimal128(doc.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.Refill{
		ID:              doc.ID,
		CounterID:       doc.CounterID,
		Amount:          amount,
		OperatorID:      doc.OperatorID,
		CustomerAccount: doc.CustomerAccount,
		Date:            doc.Date,
		PaymentMethod:   domain.PaymentMethod(doc.PaymentMethod),
		Bank:            domain.Bank(doc.Bank),
		IdempotencyKey:  doc.IdempotencyKey,
	}, nil
}
