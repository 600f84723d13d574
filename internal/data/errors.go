package data

import "errors"

var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrArticleNotFound is returned when an article is not found.
	ErrArticleNotFound = errors.New("article not found")
	// ErrUserNotFound is returned when a staff account is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when creating/updating a staff account with a
	// duplicate email.
	ErrEmailExists = errors.New("email already exists")
	// ErrArticleNameExists is returned when creating/updating an article with a
	// duplicate name.
	ErrArticleNameExists = errors.New("article name already exists")
)
