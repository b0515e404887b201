package mongo

import (
	"context"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoReportRepository implements repository.ReportRepository. It runs
// directly against the workouts collection: the report is a group/join/
// project pipeline, not something the per-record workout API can express.
type mongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a new report repository over the
// workouts collection.
func NewMongoReportRepository(db *mongo.Database) repository.ReportRepository {
	return &mongoReportRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// GroupWorkoutsByUser groups every workout by owner, sums the points per
// group, collects a slim projection of each workout (no certificate
// payloads) and joins the owner's name and email from users. Groups come
// back sorted by owner ID ascending so the report order is stable.
func (r *mongoReportRepository) GroupWorkoutsByUser(ctx context.Context) ([]domain.UserPointsGroup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         "$ownerId",
			"totalPoints": bson.M{"$sum": "$points"},
			"workouts": bson.M{"$push": bson.M{
				"title":     "$title",
				"points":    "$points",
				"createdAt": "$createdAt",
			}},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         userCollectionName,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "userDetails",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$userDetails",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"ownerId":     "$_id",
			"totalPoints": 1,
			"workouts":    1,
			"user": bson.M{
				"name":  "$userDetails.name",
				"email": "$userDetails.email",
			},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "ownerId", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []domain.UserPointsGroup
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []domain.UserPointsGroup{}
	}
	return groups, nil
}
