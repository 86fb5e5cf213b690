package facerec

import (
	"context"
	"encoding/json"
	"fmt"
)

// Recognize submits a photo and returns the best matching person
func (c *Client) Recognize(ctx context.Context, file UploadFile) (*RecognitionResult, error) {
	body, err := doMultipart(ctx, c, "recognize", nil, "file", []UploadFile{file})
	if err != nil {
		return nil, err
	}

	var result RecognitionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &result, nil
}
