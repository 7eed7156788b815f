package domain

import "time"

// Changes is a partial update keyed by stored field name.
type Changes map[string]any

func (c Changes) setString(key string, v *string) {
	if v != nil {
		c[key] = *v
	}
}

func (c Changes) setInt(key string, v *int) {
	if v != nil {
		c[key] = *v
	}
}

func (c Changes) setFloat(key string, v *float64) {
	if v != nil {
		c[key] = *v
	}
}

// TourPatch carries the updatable tour fields. Nil fields are left untouched.
type TourPatch struct {
	Name           *string      `json:"name" validate:"omitempty,min=10,max=40"`
	Duration       *int         `json:"duration" validate:"omitempty,gt=0"`
	MaxGroupSize   *int         `json:"maxGroupSize" validate:"omitempty,gt=0"`
	Difficulty     *string      `json:"difficulty" validate:"omitempty,oneof=easy medium difficult"`
	RatingsAverage *float64     `json:"ratingsAverage" validate:"omitempty,min=1,max=5"`
	Price          *float64     `json:"price" validate:"omitempty,gt=0"`
	PriceDiscount  *float64     `json:"priceDiscount" validate:"omitempty,gte=0"`
	Summary        *string      `json:"summary" validate:"omitempty,min=1"`
	Description    *string      `json:"description"`
	StartDates     *[]time.Time `json:"startDates"`
}

func (p TourPatch) Changes() Changes {
	c := Changes{}
	c.setString("name", p.Name)
	c.setInt("duration", p.Duration)
	c.setInt("maxGroupSize", p.MaxGroupSize)
	c.setString("difficulty", p.Difficulty)
	c.setFloat("ratingsAverage", p.RatingsAverage)
	c.setFloat("price", p.Price)
	c.setFloat("priceDiscount", p.PriceDiscount)
	c.setString("summary", p.Summary)
	c.setString("description", p.Description)
	if p.StartDates != nil {
		c["startDates"] = *p.StartDates
	}
	return c
}

// ReviewPatch only exposes the review body and rating; the tour and author
// of a review are fixed once it is created.
type ReviewPatch struct {
	Review *string `json:"review" validate:"omitempty,min=1"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (p ReviewPatch) Changes() Changes {
	c := Changes{}
	c.setString("review", p.Review)
	c.setInt("rating", p.Rating)
	return c
}

// ProfilePatch is what an identity may change about itself.
type ProfilePatch struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Photo *string `json:"photo"`
}

func (p ProfilePatch) Changes() Changes {
	c := Changes{}
	c.setString("name", p.Name)
	c.setString("email", p.Email)
	c.setString("photo", p.Photo)
	return c
}
