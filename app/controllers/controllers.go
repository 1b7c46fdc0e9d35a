// Package controllers adapts HTTP requests to the services layer. Handlers
// take a *ctx.Context and never touch storage directly.
package controllers

type insertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

func inserted(id string) insertResult {
	return insertResult{Acknowledged: true, InsertedID: id}
}

type deleteResult struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type successResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type modifiedResult struct {
	Success       bool  `json:"success"`
	ModifiedCount int64 `json:"modifiedCount"`
}

func modified(n int64) modifiedResult {
	return modifiedResult{Success: true, ModifiedCount: n}
}

// recordRef is the body of the checkout routes. Only the id is read; the
// amount and description come from the stored record.
type recordRef struct {
	ID string `json:"_id"`
}
