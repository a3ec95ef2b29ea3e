package repositories

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow-project/backend/models"
)

// buildTaskFilter translates the optional list filters into a single Mongo
// filter document. Every present filter contributes exactly one clause and
// the clauses combine conjunctively; an empty filter set matches everything.
func buildTaskFilter(f models.TaskListFilters) bson.M {
	var clauses []bson.M

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"title": pattern},
			{"description": pattern},
		}})
	}

	if len(f.Statuses) > 0 {
		clauses = append(clauses, bson.M{"status": bson.M{"$in": f.Statuses}})
	}

	if f.AssigneeID != "" {
		// Validated upstream; a malformed hex never reaches this point.
		id, err := primitive.ObjectIDFromHex(f.AssigneeID)
		if err == nil {
			clauses = append(clauses, bson.M{"assignees._id": id})
		}
	}

	if len(clauses) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": clauses}
}

// buildTaskFindOptions maps sort and page parameters onto find options.
// The _id tiebreaker keeps pagination deterministic when sort keys collide.
func buildTaskFindOptions(f models.TaskListFilters) *options.FindOptions {
	order := -1
	if f.SortOrder == models.SortOrderAsc {
		order = 1
	}

	sortKey := "createdAt"
	if f.SortBy == models.SortByTitle {
		sortKey = "title"
	}

	return options.Find().
		SetSort(bson.D{{Key: sortKey, Value: order}, {Key: "_id", Value: 1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.Limit))
}
