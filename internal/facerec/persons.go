package facerec

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
)

var validate = validator.New()

// GetPersons retrieves every enrolled person with their images, in server order
func (c *Client) GetPersons(ctx context.Context) ([]Person, error) {
	result, err := doGetJSON[[]Person](ctx, c, "persons")
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// CreatePerson enrolls a new person with an initial set of images
func (c *Client) CreatePerson(ctx context.Context, name string, files []UploadFile) error {
	update, err := NewNameUpdate(name)
	if err != nil {
		return err
	}
	_, err = doMultipart(ctx, c, "person", map[string]string{"name": update.Name}, "files[]", files)
	return err
}

// UpdatePersonName renames a person
func (c *Client) UpdatePersonName(ctx context.Context, personID int, name string) error {
	update, err := NewNameUpdate(name)
	if err != nil {
		return err
	}
	return doRequestRaw(ctx, c, http.MethodPut, fmt.Sprintf("person/%d/name", personID), update)
}

// AddPersonImages uploads additional reference images for a person
func (c *Client) AddPersonImages(ctx context.Context, personID int, files []UploadFile) error {
	_, err := doMultipart(ctx, c, fmt.Sprintf("person/%d/images", personID), nil, "files[]", files)
	return err
}

// DeletePerson removes a person and all their images
func (c *Client) DeletePerson(ctx context.Context, personID int) error {
	return doRequestRaw(ctx, c, http.MethodDelete, fmt.Sprintf("person/%d", personID), nil)
}

// DeleteImage removes a single reference image
func (c *Client) DeleteImage(ctx context.Context, imageID int) error {
	return doRequestRaw(ctx, c, http.MethodDelete, fmt.Sprintf("image/%d", imageID), nil)
}

// NewNameUpdate trims and validates a person name.
func NewNameUpdate(name string) (NameUpdate, error) {
	update := NameUpdate{Name: strings.TrimSpace(name)}
	if err := validate.Struct(update); err != nil {
		return update, fmt.Errorf("invalid name: %w", err)
	}
	return update, nil
}
