package model

// Category groups articles. Articles reference it by ID only.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
