package entity

// Entity is anything the archive can index as a document.
type Entity interface {
	Slug() string
}
