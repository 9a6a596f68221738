package domain

type TagType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Tag struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	TypeID *string `json:"typeId,omitempty"`
}
