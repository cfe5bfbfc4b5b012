package mongo

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

const collectionSweets = "sweets"

type SweetRepository struct {
	col *mongo.Collection
}

func NewSweetRepository(db *mongo.Database) *SweetRepository {
	return &SweetRepository{col: db.Collection(collectionSweets)}
}

type sweetDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Category  string             `bson:"category"`
	Price     float64            `bson:"price"`
	Quantity  int64              `bson:"quantity"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *sweetDoc) toDomain() *domain.Sweet {
	return &domain.Sweet{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Category:  d.Category,
		Price:     d.Price,
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// parseID converts an id string into an ObjectID. A malformed id cannot refer
// to any stored sweet, so it maps to ErrSweetNotFound rather than a distinct
// validation failure.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrSweetNotFound
	}
	return oid, nil
}

// Create inserts a new sweet document and returns it with its generated id.
func (r *SweetRepository) Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := sweetDoc{
		Name:      s.Name,
		Category:  s.Category,
		Price:     s.Price,
		Quantity:  s.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID retrieves a single sweet by id.
func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sweetDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns all sweets in store-native order.
func (r *SweetRepository) List(ctx context.Context) ([]*domain.Sweet, error) {
	return r.find(ctx, bson.M{})
}

// Search returns sweets matching every supplied filter field. The name match
// is a case-insensitive substring match with regex metacharacters escaped,
// mirroring how user input must never become a live pattern.
func (r *SweetRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}

	return r.find(ctx, query)
}

func (r *SweetRepository) find(ctx context.Context, query bson.M) ([]*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []sweetDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	sweets := make([]*domain.Sweet, len(docs))
	for i := range docs {
		sweets[i] = docs[i].toDomain()
	}
	return sweets, nil
}

// Update applies the supplied fields with a single $set and returns the
// updated document. Missing ids are reported explicitly.
func (r *SweetRepository) Update(ctx context.Context, id string, input ports.UpdateSweetInput) (*domain.Sweet, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.Quantity != nil {
		set["quantity"] = *input.Quantity
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sweetDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Delete hard-deletes a sweet. A second delete of the same id reports
// ErrSweetNotFound.
func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

// Purchase decrements quantity by one as a single conditional update: the
// filter only matches while quantity > 0, so two concurrent purchases of the
// last unit can never both succeed and quantity can never go negative.
func (r *SweetRepository) Purchase(ctx context.Context, id string) (*domain.Sweet, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sweetDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "quantity": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"quantity": -1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Nothing matched: either the sweet is gone or its quantity is zero.
	n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if countErr != nil {
		return nil, countErr
	}
	if n == 0 {
		return nil, domain.ErrSweetNotFound
	}
	return nil, domain.ErrOutOfStock
}

// Restock increments quantity by amount atomically and returns the updated
// sweet.
func (r *SweetRepository) Restock(ctx context.Context, id string, amount int64) (*domain.Sweet, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sweetDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc": bson.M{"quantity": amount},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Categories returns the distinct non-empty category labels across all
// current sweets, sorted for stable output.
func (r *SweetRepository) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// EnsureIndexes creates the indexes backing search and category derivation.
func (r *SweetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
