package facerec

import (
	"context"
	"errors"
)

// StartTraining asks the backend to begin a training run.
// A response with success=false is returned as an error carrying the server message.
func (c *Client) StartTraining(ctx context.Context) (*RetrainResponse, error) {
	result, err := doPostJSON[RetrainResponse](ctx, c, "retrain", nil)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		if result.Error != "" {
			return result, errors.New(result.Error)
		}
		return result, errors.New("training could not be started")
	}
	return result, nil
}

// TrainingProgress returns the current state of the remote training job
func (c *Client) TrainingProgress(ctx context.Context) (*TrainingStatus, error) {
	return doGetJSON[TrainingStatus](ctx, c, "training-progress")
}

// ModelStats returns aggregate statistics about the trained model
func (c *Client) ModelStats(ctx context.Context) (*ModelStats, error) {
	return doGetJSON[ModelStats](ctx, c, "model-stats")
}

// TrainingHistory returns per-epoch metrics of the last finished training run
func (c *Client) TrainingHistory(ctx context.Context) (*TrainingHistory, error) {
	return doGetJSON[TrainingHistory](ctx, c, "training-history")
}
