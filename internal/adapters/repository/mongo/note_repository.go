package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

type noteDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Title      string        `bson:"title"`
	Content    string        `bson:"content"`
	Category   string        `bson:"category"`
	Type       string        `bson:"type"`
	Tags       []string      `bson:"tags"`
	Priority   string        `bson:"priority"`
	IsArchived bool          `bson:"isArchived"`
	IsFavorite bool          `bson:"isFavorite"`
	CreatedAt  time.Time     `bson:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt"`
}

func (d *noteDocument) toDomain() *domain.Note {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Note{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Content:    d.Content,
		Category:   d.Category,
		Type:       d.Type,
		Tags:       tags,
		Priority:   d.Priority,
		IsArchived: d.IsArchived,
		IsFavorite: d.IsFavorite,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type NoteRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewNoteRepository(db *mongo.Database) ports.NoteRepository {
	return &NoteRepository{coll: db.Collection(notesCollection), now: time.Now}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	// BSON dates carry millisecond precision
	now := r.now().UTC().Truncate(time.Millisecond)
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := noteDocument{
		ID:         bson.NewObjectID(),
		Title:      note.Title,
		Content:    note.Content,
		Category:   note.Category,
		Type:       note.Type,
		Tags:       tags,
		Priority:   note.Priority,
		IsArchived: note.IsArchived,
		IsFavorite: note.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}

	note.ID = doc.ID.Hex()
	note.Tags = tags
	note.CreatedAt = now
	note.UpdatedAt = now
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc noteDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *NoteRepository) Replace(ctx context.Context, id string, in ports.NoteInput) (*domain.Note, error) {
	set := bson.D{
		{Key: "title", Value: in.Title},
		{Key: "content", Value: in.Content},
		{Key: "category", Value: in.Category},
		{Key: "type", Value: in.Type},
		{Key: "tags", Value: in.Tags},
		{Key: "priority", Value: in.Priority},
	}
	if in.IsArchived != nil {
		set = append(set, bson.E{Key: "isArchived", Value: *in.IsArchived})
	}
	if in.IsFavorite != nil {
		set = append(set, bson.E{Key: "isFavorite", Value: *in.IsFavorite})
	}

	return r.updateOne(ctx, id, bson.D{{Key: "$set", Value: r.stamp(set)}})
}

func (r *NoteRepository) Delete(ctx context.Context, id string) (*domain.Note, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc noteDocument
	err = r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *NoteRepository) SetArchived(ctx context.Context, id string, archived bool) (*domain.Note, error) {
	return r.updateOne(ctx, id, bson.D{{Key: "$set", Value: r.stamp(bson.D{{Key: "isArchived", Value: archived}})}})
}

// ToggleFavorite flips the flag server-side with an update pipeline so
// concurrent toggles cannot lose an update.
func (r *NoteRepository) ToggleFavorite(ctx context.Context, id string) (*domain.Note, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isFavorite", Value: bson.D{{Key: "$not", Value: bson.A{"$isFavorite"}}}},
			{Key: "updatedAt", Value: r.now().UTC()},
		}}},
	}
	return r.updateOne(ctx, id, pipeline)
}

func (r *NoteRepository) updateOne(ctx context.Context, id string, update any) (*domain.Note, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc noteDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *NoteRepository) stamp(set bson.D) bson.D {
	return append(set, bson.E{Key: "updatedAt", Value: r.now().UTC()})
}

func (r *NoteRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Note, error) {
	opts := options.Find().
		SetSort(renderSort(q.Sort)).
		SetSkip(int64(q.Pagination.Skip))
	if q.Pagination.Limit > 0 {
		opts.SetLimit(int64(q.Pagination.Limit))
	}
	return r.find(ctx, renderFilter(q.Filter), opts)
}

func (r *NoteRepository) FindAll(ctx context.Context, filter domain.NoteFilter, sort domain.Sort) ([]*domain.Note, error) {
	return r.find(ctx, renderFilter(filter), options.Find().SetSort(renderSort(sort)))
}

func (r *NoteRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]*domain.Note, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	notes := make([]*domain.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, docs[i].toDomain())
	}
	return notes, nil
}

func (r *NoteRepository) Count(ctx context.Context, filter domain.NoteFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, renderFilter(filter))
}

func (r *NoteRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}

	var rows []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

func (r *NoteRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

func (r *NoteRepository) DistinctTags(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "tags")
}

func (r *NoteRepository) distinct(ctx context.Context, field string) ([]string, error) {
	var values []string
	if err := r.coll.Distinct(ctx, field, bson.D{}).Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", field, err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func (r *NoteRepository) BulkSetArchived(ctx context.Context, ids []string, archived bool) (int64, error) {
	extra := bson.D{{Key: "isArchived", Value: bson.D{{Key: "$ne", Value: archived}}}}
	return r.updateMany(ctx, ids, extra, bson.D{{Key: "$set", Value: r.stamp(bson.D{{Key: "isArchived", Value: archived}})}})
}

func (r *NoteRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	oids, err := objectIDs(ids)
	if err != nil {
		return 0, err
	}

	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// BulkAddTag leaves notes that already hold domain.MaxTags tags untouched.
func (r *NoteRepository) BulkAddTag(ctx context.Context, ids []string, tag string) (int64, error) {
	extra := bson.D{
		{Key: "tags", Value: bson.D{{Key: "$ne", Value: tag}}},
		{Key: fmt.Sprintf("tags.%d", domain.MaxTags-1), Value: bson.D{{Key: "$exists", Value: false}}},
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "tags", Value: tag}}},
		{Key: "$set", Value: r.stamp(bson.D{})},
	}
	return r.updateMany(ctx, ids, extra, update)
}

func (r *NoteRepository) BulkRemoveTag(ctx context.Context, ids []string, tag string) (int64, error) {
	extra := bson.D{{Key: "tags", Value: tag}}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "tags", Value: tag}}},
		{Key: "$set", Value: r.stamp(bson.D{})},
	}
	return r.updateMany(ctx, ids, extra, update)
}

// updateMany reports modified documents; the updatedAt stamp makes every
// matched document count as modified, so filters exclude no-op targets.
func (r *NoteRepository) updateMany(ctx context.Context, ids []string, extra bson.D, update bson.D) (int64, error) {
	oids, err := objectIDs(ids)
	if err != nil {
		return 0, err
	}

	filter := append(bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}}, extra...)
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
