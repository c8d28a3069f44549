package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studorg/counter-system/internal/core/domain"
)

// CatalogRepository persists reference data: products, product types and
// counters.
type CatalogRepository struct {
	db *mongo.Database
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type productDoc struct {
	ID                  string               `bson:"_id"`
	Name                string               `bson:"name"`
	Description         string               `bson:"description,omitempty"`
	Code                string               `bson:"code"`
	TypeID              string               `bson:"type_id,omitempty"`
	PurchasePrice       primitive.Decimal128 `bson:"purchase_price"`
	SellingPrice        primitive.Decimal128 `bson:"selling_price"`
	SpecialSellingPrice primitive.Decimal128 `bson:"special_selling_price"`
	ClubID              string               `bson:"club_id"`
	ParentID            string               `bson:"parent_id,omitempty"`
	Archived            bool                 `bson:"archived"`
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Collection(collectionProducts).InsertOne(ctx, toProductDoc(p))
	return err
}

func (r *CatalogRepository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	err := r.db.Collection(collectionProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return productToDomain(doc)
}

func (r *CatalogRepository) ListProducts(ctx context.Context, includeArchived bool) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if !includeArchived {
		filter["archived"] = false
	}
	cursor, err := r.db.Collection(collectionProducts).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domain.Product
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		product, err := productToDomain(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	return out, cursor.Err()
}

func (r *CatalogRepository) ArchiveProduct(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.db.Collection(collectionProducts).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"archived": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *CatalogRepository) CreateProductType(ctx context.Context, t *domain.ProductType) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Collection(collectionProductTypes).InsertOne(ctx, t)
	return err
}

func (r *CatalogRepository) ListProductTypes(ctx context.Context) ([]*domain.ProductType, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.db.Collection(collectionProductTypes).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domain.ProductType
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) CreateCounter(ctx context.Context, c *domain.Counter) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Collection(collectionCounters).InsertOne(ctx, c)
	return err
}

func (r *CatalogRepository) FindCounter(ctx context.Context, id string) (*domain.Counter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var counter domain.Counter
	err := r.db.Collection(collectionCounters).FindOne(ctx, bson.M{"_id": id}).Decode(&counter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCounterNotFound
		}
		return nil, err
	}
	return &counter, nil
}

func (r *CatalogRepository) ListCounters(ctx context.Context) ([]*domain.Counter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.db.Collection(collectionCounters).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domain.Counter
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the product code lookup index.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.db.Collection(collectionProducts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func toProductDoc(p *domain.Product) productDoc {
	return productDoc{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Code:                p.Code,
		TypeID:              p.TypeID,
		PurchasePrice:       toDecimal128(p.PurchasePrice),
		SellingPrice:        toDecimal128(p.SellingPrice),
		SpecialSellingPrice: toDecimal128(p.SpecialSellingPrice),
		ClubID:              p.ClubID,
		ParentID:            p.ParentID,
		Archived:            p.Archived,
	}
}

func productToDomain(doc productDoc) (*domain.Product, error) {
	prices := make([]decimal.Decimal, 3)
	for i, raw := range []primitive.Decimal128{doc.PurchasePrice, doc.SellingPrice, doc.SpecialSellingPrice} {
		d, err := fromDecimal128(raw)
		if err != nil {
			return nil, err
		}
		prices[i] = d
	}
	return &domain.Product{
		ID:                  doc.ID,
		Name:                doc.Name,
		Description:         doc.Description,
		Code:                doc.Code,
		TypeID:              doc.TypeID,
		PurchasePrice:       prices[0],
		SellingPrice:        prices[1],
		SpecialSellingPrice: prices[2],
		ClubID:              doc.ClubID,
		ParentID:            doc.ParentID,
		Archived:            doc.Archived,
	}, nil
}
