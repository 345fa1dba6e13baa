// File: /repositories/mongo_post_repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"socialpulse-api/models"
)

const postsCollection = "posts"

// MongoPostRepository implements PostStore on a MongoDB collection. Claims and
// status transitions are single-document UpdateOne calls filtered on status,
// which MongoDB applies atomically.
type MongoPostRepository struct {
	posts *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{posts: db.Collection(postsCollection)}
}

var _ PostStore = (*MongoPostRepository)(nil)

// EnsureIndexes creates the indexes the API and the scheduler query on.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduled_for", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) FindForUser(ctx context.Context, userID, id string) (*models.Post, error) {
	var post models.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}
	return &post, nil
}

func (r *MongoPostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int64, error) {
	query := listFilter(filter)

	total, err := r.posts.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))
	posts, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

func (r *MongoPostRepository) Update(ctx context.Context, post *models.Post, expected models.PostStatus) error {
	if expected == models.PostStatusPublishing {
		return ErrPostLocked
	}
	set := bson.M{
		"title":      post.Title,
		"content":    post.Content,
		"platform":   post.Platform,
		"status":     post.Status,
		"image_url":  post.ImageURL,
		"updated_at": post.UpdatedAt,
	}
	unset := bson.M{}
	setOrUnset(set, unset, "scheduled_for", post.ScheduledFor)
	setOrUnset(set, unset, "published_at", post.PublishedAt)
	setOrUnset(set, unset, "claimed_at", post.ClaimedAt)
	if post.ClaimToken != "" {
		set["claim_token"] = post.ClaimToken
	} else {
		unset["claim_token"] = ""
	}
	if post.PlatformPostID != "" {
		set["platform_post_id"] = post.PlatformPostID
	} else {
		unset["platform_post_id"] = ""
	}
	if post.FailureReason != "" {
		set["failure_reason"] = post.FailureReason
	} else {
		unset["failure_reason"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.posts.UpdateOne(ctx, editFilter(post.UserID, post.ID, expected), update)
	if err != nil {
		return fmt.Errorf("update post %s: %w", post.ID, err)
	}
	if res.MatchedCount == 0 {
		current, err := r.FindForUser(ctx, post.UserID, post.ID)
		if err != nil {
			return err
		}
		if current.Status == models.PostStatusPublishing {
			return ErrPostLocked
		}
		return ErrPostChanged
	}
	return nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.posts.DeleteOne(ctx, editableFilter(userID, id))
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return r.explainMiss(ctx, userID, id)
	}
	return nil
}

func (r *MongoPostRepository) UpdateEngagement(ctx context.Context, userID, id string, engagement models.Engagement) error {
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{
		"$set": bson.M{
			"engagement": engagement,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("update engagement for post %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) CountByStatus(ctx context.Context, userID string) ([]models.StatusCount, error) {
	cursor, err := r.posts.Aggregate(ctx, statusCountPipeline(userID))
	if err != nil {
		return nil, fmt.Errorf("count posts by status: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make([]models.StatusCount, 0)
	for cursor.Next(ctx) {
		var row struct {
			Status models.PostStatus `bson:"_id"`
			Count  int64             `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode status count: %w", err)
		}
		counts = append(counts, models.StatusCount{Status: row.Status, Count: row.Count})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (r *MongoPostRepository) PublishedPosts(ctx context.Context, query models.AnalyticsQuery) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: 1}})
	posts, err := r.find(ctx, publishedFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) FindDuePosts(ctx context.Context, now, staleBefore time.Time, limit int) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_for", Value: 1}}).
		SetLimit(int64(limit))
	posts, err := r.find(ctx, dueFilter(now, staleBefore), opts)
	if err != nil {
		return nil, fmt.Errorf("find due posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) ClaimPost(ctx context.Context, id, token string, now, staleBefore time.Time) (bool, error) {
	filter := dueFilter(now, staleBefore)
	filter["_id"] = id

	res, err := r.posts.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"status":      models.PostStatusPublishing,
			"claimed_at":  now.UTC(),
			"claim_token": token,
			"updated_at":  now.UTC(),
		},
	})
	if err != nil {
		return false, fmt.Errorf("claim post %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoPostRepository) MarkPublished(ctx context.Context, id, token, externalID string, publishedAt time.Time) error {
	return r.resolveClaim(ctx, id, token, bson.M{
		"$set": bson.M{
			"status":           models.PostStatusPublished,
			"platform_post_id": externalID,
			"published_at":     publishedAt.UTC(),
			"updated_at":       publishedAt.UTC(),
		},
		"$unset": bson.M{"claimed_at": "", "claim_token": "", "failure_reason": ""},
	})
}

func (r *MongoPostRepository) MarkFailed(ctx context.Context, id, token, reason string, failedAt time.Time) error {
	return r.resolveClaim(ctx, id, token, bson.M{
		"$set": bson.M{
			"status":         models.PostStatusFailed,
			"failure_reason": truncate(reason, maxFailureReason),
			"updated_at":     failedAt.UTC(),
		},
		"$unset": bson.M{"claimed_at": "", "claim_token": "", "published_at": "", "platform_post_id": ""},
	})
}

func (r *MongoPostRepository) resolveClaim(ctx context.Context, id, token string, update bson.M) error {
	res, err := r.posts.UpdateOne(ctx, claimFilter(id, token), update)
	if err != nil {
		return fmt.Errorf("resolve claim on post %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotClaimed
	}
	return nil
}

func (r *MongoPostRepository) explainMiss(ctx context.Context, userID, id string) error {
	post, err := r.FindForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	if post.Status == models.PostStatusPublishing {
		return ErrPostLocked
	}
	return ErrPostNotFound
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Filter builders

func listFilter(f models.PostFilter) bson.M {
	filter := bson.M{"user_id": f.UserID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Platform != "" {
		filter["platform"] = f.Platform
	}
	return filter
}

func editableFilter(userID, id string) bson.M {
	return bson.M{
		"_id":     id,
		"user_id": userID,
		"status":  bson.M{"$ne": models.PostStatusPublishing},
	}
}

// editFilter matches the owner's post only while it is still in the status
// the edit was based on.
func editFilter(userID, id string, expected models.PostStatus) bson.M {
	return bson.M{"_id": id, "user_id": userID, "status": expected}
}

func claimFilter(id, token string) bson.M {
	return bson.M{"_id": id, "status": models.PostStatusPublishing, "claim_token": token}
}

func dueFilter(now, staleBefore time.Time) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"status": models.PostStatusScheduled, "scheduled_for": bson.M{"$lte": now.UTC()}},
			bson.M{"status": models.PostStatusPublishing, "claimed_at": bson.M{"$lte": staleBefore.UTC()}},
		},
	}
}

func publishedFilter(q models.AnalyticsQuery) bson.M {
	filter := bson.M{"user_id": q.UserID, "status": models.PostStatusPublished}
	created := bson.M{}
	if q.From != nil {
		created["$gte"] = q.From.UTC()
	}
	if q.To != nil {
		created["$lte"] = q.To.UTC()
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}
	return filter
}

func statusCountPipeline(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

func setOrUnset(set, unset bson.M, key string, value *time.Time) {
	if value != nil {
		set[key] = value.UTC()
		return
	}
	unset[key] = ""
}
