package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

type userDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Username      string        `bson:"username"`
	Email         string        `bson:"email"`
	Password      string        `bson:"password,omitempty"`
	FirstName     string        `bson:"firstName"`
	LastName      string        `bson:"lastName"`
	IsActive      bool          `bson:"isActive"`
	LoginAttempts int           `bson:"loginAttempts"`
	LockUntil     *time.Time    `bson:"lockUntil"`
	LastLogin     *time.Time    `bson:"lastLogin"`
	CreatedAt     time.Time     `bson:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:            d.ID.Hex(),
		Username:      d.Username,
		Email:         d.Email,
		PasswordHash:  d.Password,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		IsActive:      d.IsActive,
		LoginAttempts: d.LoginAttempts,
		LockUntil:     d.LockUntil,
		LastLogin:     d.LastLogin,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// withoutPassword is the default projection for user reads.
var withoutPassword = options.FindOne().SetProjection(bson.D{{Key: "password", Value: 0}})

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) ports.UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "username") {
				return domain.ErrUsernameTaken
			}
			return domain.ErrEmailTaken
		}
		return err
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, withoutPassword)
}

func (r *UserRepository) GetByIDWithPassword(ctx context.Context, id string) (*domain.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *UserRepository) FindByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "email", Value: strings.ToLower(identifier)}},
		bson.D{{Key: "username", Value: identifier}},
	}}}
	return r.findOne(ctx, filter)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D, opts ...options.Lister[options.FindOneOptions]) (*domain.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.D) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) UpdateLoginState(ctx context.Context, user *domain.User) error {
	return r.updateOne(ctx, user.ID, bson.D{
		{Key: "loginAttempts", Value: user.LoginAttempts},
		{Key: "lockUntil", Value: user.LockUntil},
		{Key: "lastLogin", Value: user.LastLogin},
	})
}

// RegisterFailedLogin runs the lock state machine as an update pipeline so
// concurrent failures each count. An expired lock restarts the count at one;
// otherwise reaching MaxAttempts sets lockUntil.
func (r *UserRepository) RegisterFailedLogin(ctx context.Context, id string, now time.Time, policy domain.LockPolicy) (*domain.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	now = now.UTC().Truncate(time.Millisecond)
	pipeline := failedLoginPipeline(now, policy, r.now().UTC())

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "password", Value: 0}})

	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, pipeline, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func failedLoginPipeline(now time.Time, policy domain.LockPolicy, updatedAt time.Time) mongo.Pipeline {
	lockUntil := bson.D{{Key: "$ifNull", Value: bson.A{"$lockUntil", nil}}}
	expired := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "$ne", Value: bson.A{lockUntil, nil}}},
		bson.D{{Key: "$lte", Value: bson.A{lockUntil, now}}},
	}}}
	locked := bson.D{{Key: "$gt", Value: bson.A{lockUntil, now}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "lockExpired", Value: expired},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "loginAttempts", Value: bson.D{{Key: "$cond", Value: bson.A{
				"$lockExpired",
				1,
				bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$loginAttempts", 0}}}, 1}}},
			}}}},
			{Key: "lockUntil", Value: bson.D{{Key: "$cond", Value: bson.A{"$lockExpired", nil, lockUntil}}}},
			{Key: "updatedAt", Value: updatedAt},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "lockUntil", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$not", Value: bson.A{"$lockExpired"}}},
					bson.D{{Key: "$gte", Value: bson.A{"$loginAttempts", policy.MaxAttempts}}},
					bson.D{{Key: "$not", Value: bson.A{locked}}},
				}}},
				now.Add(policy.LockDuration),
				"$lockUntil",
			}}}},
		}}},
		{{Key: "$unset", Value: "lockExpired"}},
	}
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, id, bson.D{{Key: "password", Value: passwordHash}})
}

func (r *UserRepository) updateOne(ctx context.Context, id string, set bson.D) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	set = append(set, bson.E{Key: "updatedAt", Value: r.now().UTC()})
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
