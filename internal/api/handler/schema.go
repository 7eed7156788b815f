package handler

import "github.com/natours/booking-api/internal/core/query"

// Fields clients may filter, sort and project on, per resource.
var (
	tourFields = query.Schema{
		"name":            query.String,
		"duration":        query.Number,
		"maxGroupSize":    query.Number,
		"difficulty":      query.String,
		"ratingsAverage":  query.Number,
		"ratingsQuantity": query.Number,
		"price":           query.Number,
		"priceDiscount":   query.Number,
		"summary":         query.String,
		"description":     query.String,
		"startDates":      query.Time,
		"createdAt":       query.Time,
	}

	userFields = query.Schema{
		"name":      query.String,
		"email":     query.String,
		"role":      query.String,
		"photo":     query.String,
		"createdAt": query.Time,
	}

	reviewFields = query.Schema{
		"review":    query.String,
		"rating":    query.Number,
		"tour":      query.Ref,
		"user":      query.Ref,
		"createdAt": query.Time,
	}
)
