package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

// renderFilter translates the storage-neutral filter into a query
// document. Field order is fixed so the output is deterministic.
func renderFilter(f domain.NoteFilter) bson.D {
	filter := bson.D{}

	if f.Archived != nil {
		filter = append(filter, bson.E{Key: "isArchived", Value: *f.Archived})
	}
	if f.Favorite != nil {
		filter = append(filter, bson.E{Key: "isFavorite", Value: *f.Favorite})
	}
	filter = appendMatch(filter, "category", f.Categories)
	filter = appendMatch(filter, "type", f.Types)
	filter = appendMatch(filter, "priority", f.Priorities)
	if len(f.Tags) > 0 {
		filter = append(filter, bson.E{Key: "tags", Value: bson.D{{Key: "$in", Value: f.Tags}}})
	}

	if f.CreatedFrom != nil || f.CreatedTo != nil {
		created := bson.D{}
		if f.CreatedFrom != nil {
			created = append(created, bson.E{Key: "$gte", Value: *f.CreatedFrom})
		}
		if f.CreatedTo != nil {
			created = append(created, bson.E{Key: "$lte", Value: *f.CreatedTo})
		}
		filter = append(filter, bson.E{Key: "createdAt", Value: created})
	}

	if f.Search != "" {
		// user input is matched literally
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: pattern}},
			bson.D{{Key: "content", Value: pattern}},
			bson.D{{Key: "tags", Value: pattern}},
		}})
	}

	return filter
}

func appendMatch(filter bson.D, field string, values []string) bson.D {
	switch len(values) {
	case 0:
		return filter
	case 1:
		return append(filter, bson.E{Key: field, Value: values[0]})
	default:
		return append(filter, bson.E{Key: field, Value: bson.D{{Key: "$in", Value: values}}})
	}
}

func renderSort(s domain.Sort) bson.D {
	field := s.Field
	if field == "" {
		field = "createdAt"
	}
	dir := s.Direction
	if dir == 0 {
		dir = -1
	}
	// _id breaks ties so paging is stable
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

func objectIDs(ids []string) ([]bson.ObjectID, error) {
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		out = append(out, oid)
	}
	return out, nil
}
