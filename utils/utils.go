package utils

import (
	"context"
	rndm "math/rand"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var digitRunes = []rune("0123456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

func GetUUID() string {
	return uuid.New().String()
}

// --- Pagination ---

// ParsePagination reads skip/limit query params, bounded by def and max.
func ParsePagination(r *http.Request, def, max int) (int64, int64) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > max {
		limit = def
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	return int64(skip), int64(limit)
}

// --- Mongo helpers ---

// FindAndDecode runs a Find and decodes every document into a slice of T.
func FindAndDecode[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []T
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
