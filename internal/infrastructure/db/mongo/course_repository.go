package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

const collectionCourses = "courses"

type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(collectionCourses)}
}

// Create inserts a new course document.
func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	course.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Course
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update overwrites the mutable course fields. Embedded collections
// (reviews, enrollment set, attachments) are never touched here so that
// concurrent atomic updates are not clobbered.
func (r *CourseRepository) Update(ctx context.Context, course *domain.Course) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":            course.Title,
		"description":      course.Description,
		"pricing_plan":     course.PricingPlan,
		"total_price":      course.TotalPrice,
		"discounted_price": course.DiscountedPrice,
		"cover_image":      course.CoverImage,
		"category":         course.Category,
		"level":            course.Level,
		"duration":         course.Duration,
		"language":         course.Language,
		"tags":             course.Tags,
		"last_updated":     course.LastUpdated,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": course.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// List executes the composed filter and returns one page plus the total count.
func (r *CourseRepository) List(ctx context.Context, filter ports.CourseFilter) ([]*domain.Course, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildQuery(filter)

	dir := 1
	if filter.SortDesc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortBy, Value: dir}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var courses []*domain.Course
	for cur.Next(ctx) {
		var c domain.Course
		if err := cur.Decode(&c); err != nil {
			return nil, 0, err
		}
		courses = append(courses, &c)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// buildQuery composes the conjunctive Mongo filter from the caller criteria.
func buildQuery(filter ports.CourseFilter) bson.M {
	query := bson.M{}

	if filter.OwnerID != "" {
		query["created_by"] = filter.OwnerID
	} else if filter.PublishedOnly {
		query["is_published"] = true
	}

	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}

	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}

	if filter.HasPrice {
		price := bson.M{"$gte": filter.MinPrice}
		if filter.MaxPrice > 0 {
			price["$lte"] = filter.MaxPrice
		}
		query["discounted_price"] = price
	}

	if filter.MinRating > 0 {
		query["rating"] = bson.M{"$gte": filter.MinRating}
	}

	return query
}

func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Course, error) {
	return r.findAll(ctx, bson.M{"created_by": ownerID}, nil)
}

// ListEnrolled returns published courses whose enrollment set contains studentID.
func (r *CourseRepository) ListEnrolled(ctx context.Context, studentID string) ([]*domain.Course, error) {
	return r.findAll(ctx, bson.M{"enrolled_students": studentID, "is_published": true}, nil)
}

// ListFeatured returns published courses with rating >= minRating, best first.
func (r *CourseRepository) ListFeatured(ctx context.Context, minRating float64, limit int) ([]*domain.Course, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.findAll(ctx, bson.M{"is_published": true, "rating": bson.M{"$gte": minRating}}, opts)
}

// DistinctCategories returns the distinct categories among published courses.
func (r *CourseRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "category", bson.M{"is_published": true})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (r *CourseRepository) SetPublished(ctx context.Context, id string, published bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_published": published,
		"last_updated": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// AddEnrollment appends studentID with set semantics. The filter excludes
// courses already containing the id, so two concurrent calls cannot both
// append: exactly one matches, the other reports added=false.
func (r *CourseRepository) AddEnrollment(ctx context.Context, courseID, studentID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": courseID, "enrolled_students": bson.M{"$ne": studentID}}
	update := bson.M{
		"$push": bson.M{"enrolled_students": studentID},
		"$set":  bson.M{"last_updated": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// UpsertReview overwrites the author's review in place or appends a new one,
// and recomputes the derived rating, in a single aggregation-pipeline update.
// One document-level atomic operation means two concurrent first submissions
// by the same author resolve to one create and one overwrite, never two
// entries and never an error.
func (r *CourseRepository) UpsertReview(ctx context.Context, courseID string, review domain.Review) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// User-supplied strings go through $literal so they are never evaluated
	// as aggregation expressions.
	overwrite := bson.M{
		"rating":     review.Rating,
		"comment":    bson.M{"$literal": review.Comment},
		"updated_at": review.UpdatedAt,
	}
	authorID := bson.M{"$literal": review.UserID}
	existing := bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}}

	newReviews := bson.M{"$cond": bson.A{
		bson.M{"$in": bson.A{authorID, bson.M{"$ifNull": bson.A{"$reviews.user_id", bson.A{}}}}},
		bson.M{"$map": bson.M{
			"input": existing,
			"as":    "r",
			"in": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$$r.user_id", authorID}},
				bson.M{"$mergeObjects": bson.A{"$$r", overwrite}},
				"$$r",
			}},
		}},
		bson.M{"$concatArrays": bson.A{existing, bson.A{bson.M{"$literal": review}}}},
	}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reviews":      newReviews,
			"last_updated": time.Now().UTC(),
		}}},
		{{Key: "$set", Value: bson.M{
			"rating": bson.M{"$ifNull": bson.A{bson.M{"$avg": "$reviews.rating"}, 0}},
		}}},
	}

	// The pre-image tells us whether this was an overwrite or a create.
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var prev domain.Course
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": courseID}, pipeline, opts).Decode(&prev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, domain.ErrCourseNotFound
		}
		return false, err
	}
	return prev.ReviewBy(review.UserID) >= 0, nil
}

// AppendPDF pushes a PDF descriptor and returns the updated course.
func (r *CourseRepository) AppendPDF(ctx context.Context, courseID string, pdf domain.PDFAttachment) (*domain.Course, error) {
	return r.appendContent(ctx, courseID, bson.M{"pdfs": pdf})
}

// AppendVideo pushes a video descriptor and returns the updated course.
func (r *CourseRepository) AppendVideo(ctx context.Context, courseID string, video domain.VideoAttachment) (*domain.Course, error) {
	return r.appendContent(ctx, courseID, bson.M{"videos": video})
}

func (r *CourseRepository) appendContent(ctx context.Context, courseID string, push bson.M) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": push,
		"$set":  bson.M{"last_updated": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c domain.Course
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": courseID}, update, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// EnsureIndexes creates the query indexes on the courses collection.
func (r *CourseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "is_published", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "is_published", Value: 1}, {Key: "rating", Value: -1}}},
		{Keys: bson.D{{Key: "enrolled_students", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *CourseRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.col.Find(ctx, filter, opts)
	} else {
		cur, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var courses []*domain.Course
	for cur.Next(ctx) {
		var c domain.Course
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		courses = append(courses, &c)
	}
	return courses, cur.Err()
}
