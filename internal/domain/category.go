package domain

import "time"

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryInput struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

func CategoriesByID(cats []Category) map[int64]Category {
	m := make(map[int64]Category, len(cats))
	for _, c := range cats {
		m[c.ID] = c
	}
	return m
}
